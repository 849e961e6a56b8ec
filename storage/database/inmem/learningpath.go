package inmemdb

import (
	"context"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
)

var defaultLearningPathOrdering = []core.DBOrdering{{Field: "title", Ascending: true}}

type learningPathRepository struct {
	db *learningPathTable
}

var _ learningpath.Repository = (*learningPathRepository)(nil) // interface compliance check

func NewLearningPathRepository(db *DB) *learningPathRepository {
	return &learningPathRepository{db: db.learningPath}
}

func (repo *learningPathRepository) filter(filter learningpath.QueryFilter) []learningpath.LearningPath {
	ids := core.NewSet(filter.IDs...)
	paths := make([]learningpath.LearningPath, 0, len(repo.db.table))
	for _, lp := range repo.db.table {
		if filter.IDs != nil && !ids.Has(lp.ID) {
			continue
		}
		if filter.Difficulty != "" && lp.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Category != "" && lp.Category != filter.Category {
			continue
		}
		if filter.Status != "" && lp.Status != filter.Status {
			continue
		}
		if !matches(filter.Search, lp.Title, lp.Description, lp.Category) {
			continue
		}
		paths = append(paths, *lp)
	}
	return paths
}

func (repo *learningPathRepository) Create(_ context.Context, lp learningpath.LearningPath) (learningpath.LearningPath, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[lp.ID] = &lp
	return lp, nil
}

func (repo *learningPathRepository) Query(_ context.Context, filter learningpath.QueryFilter, ordering []core.DBOrdering) ([]learningpath.LearningPath, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	paths := repo.filter(filter)
	orderRows(paths, ordering, defaultLearningPathOrdering, func(i int, field string) (interface{}, bool) {
		switch field {
		case "title":
			return paths[i].Title, true
		case "difficulty":
			return paths[i].Difficulty, true
		case "modules":
			return paths[i].Modules, true
		case "category":
			return paths[i].Category, true
		case "status":
			return paths[i].Status, true
		case "created_at":
			return paths[i].CreatedAt, true
		case "updated_at":
			return paths[i].UpdatedAt, true
		}
		return nil, false
	})
	return paths, nil
}

func (repo *learningPathRepository) Get(_ context.Context, id string) (learningpath.LearningPath, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lp, ok := repo.db.table[id]; ok {
		return *lp, nil
	}
	return learningpath.LearningPath{}, learningpath.ErrNotFound
}

func (repo *learningPathRepository) Update(_ context.Context, lp learningpath.LearningPath) (learningpath.LearningPath, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[lp.ID]; !ok {
		return learningpath.LearningPath{}, learningpath.ErrNotFound
	}
	repo.db.table[lp.ID] = &lp
	return lp, nil
}

func (repo *learningPathRepository) Delete(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return learningpath.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *learningPathRepository) Count(_ context.Context, filter learningpath.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}
