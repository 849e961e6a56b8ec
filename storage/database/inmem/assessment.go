package inmemdb

import (
	"context"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
)

var defaultAssessmentOrdering = []core.DBOrdering{{Field: "code", Ascending: true}}

type assessmentRepository struct {
	db *assessmentTable
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *DB) *assessmentRepository {
	return &assessmentRepository{db: db.assessment}
}

func (repo *assessmentRepository) filter(filter assessment.QueryFilter) []assessment.Assessment {
	codes := core.NewSet(filter.Codes...)
	items := make([]assessment.Assessment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		if filter.Codes != nil && !codes.Has(a.Code) {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Difficulty != "" && a.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if !matches(filter.Search, a.Title, a.Code, a.Description, a.Category) {
			continue
		}
		items = append(items, *a)
	}
	return items
}

func (repo *assessmentRepository) codeTaken(code string, excludedID string) bool {
	for _, a := range repo.db.table {
		if a.Code == code && a.ID != excludedID {
			return true
		}
	}
	return false
}

func (repo *assessmentRepository) Create(_ context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.codeTaken(a.Code, "") {
		return assessment.Assessment{}, assessment.ErrCodeExists
	}
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) Query(_ context.Context, filter assessment.QueryFilter, ordering []core.DBOrdering) ([]assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	items := repo.filter(filter)
	orderRows(items, ordering, defaultAssessmentOrdering, func(i int, field string) (interface{}, bool) {
		switch field {
		case "code":
			return items[i].Code, true
		case "title":
			return items[i].Title, true
		case "type":
			return items[i].Type, true
		case "duration":
			return items[i].Duration, true
		case "difficulty":
			return items[i].Difficulty, true
		case "category":
			return items[i].Category, true
		case "status":
			return items[i].Status, true
		case "created_at":
			return items[i].CreatedAt, true
		case "updated_at":
			return items[i].UpdatedAt, true
		}
		return nil, false
	})
	return items, nil
}

func (repo *assessmentRepository) Get(_ context.Context, id string) (assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assessment.Assessment{}, assessment.ErrNotFound
}

func (repo *assessmentRepository) GetByCode(_ context.Context, code string) (assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.table {
		if a.Code == code {
			return *a, nil
		}
	}
	return assessment.Assessment{}, assessment.ErrNotFound
}

func (repo *assessmentRepository) Update(_ context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[a.ID]; !ok {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	if repo.codeTaken(a.Code, a.ID) {
		return assessment.Assessment{}, assessment.ErrCodeExists
	}
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) Delete(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assessment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *assessmentRepository) Count(_ context.Context, filter assessment.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}
