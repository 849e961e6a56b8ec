package inmemdb

import (
	"context"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/organization"
)

var defaultOrganizationOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}

type organizationRepository struct {
	db *organizationTable
}

var _ organization.Repository = (*organizationRepository)(nil) // interface compliance check

func NewOrganizationRepository(db *DB) *organizationRepository {
	return &organizationRepository{db: db.organization}
}

func (repo *organizationRepository) clone(org organization.Organization) organization.Organization {
	org.AssignedLearningPaths = copyStrings(org.AssignedLearningPaths)
	org.AssignedAssessments = copyStrings(org.AssignedAssessments)
	return org
}

func (repo *organizationRepository) filter(filter organization.QueryFilter) []organization.Organization {
	ids := core.NewSet(filter.IDs...)
	orgs := make([]organization.Organization, 0, len(repo.db.table))
	for _, org := range repo.db.table {
		if filter.IDs != nil && !ids.Has(org.ID) {
			continue
		}
		if filter.Status != "" && org.Status != filter.Status {
			continue
		}
		if !matches(filter.Search, org.Name, org.Description) {
			continue
		}
		orgs = append(orgs, repo.clone(*org))
	}
	return orgs
}

func (repo *organizationRepository) Create(_ context.Context, org organization.Organization) (organization.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	org = repo.clone(org)
	repo.db.table[org.ID] = &org
	return repo.clone(org), nil
}

func (repo *organizationRepository) Query(_ context.Context, filter organization.QueryFilter, ordering []core.DBOrdering) ([]organization.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	orgs := repo.filter(filter)
	orderRows(orgs, ordering, defaultOrganizationOrdering, func(i int, field string) (interface{}, bool) {
		switch field {
		case "name":
			return orgs[i].Name, true
		case "status":
			return orgs[i].Status, true
		case "created_at":
			return orgs[i].CreatedAt, true
		case "updated_at":
			return orgs[i].UpdatedAt, true
		}
		return nil, false
	})
	return orgs, nil
}

func (repo *organizationRepository) Get(_ context.Context, id string) (organization.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if org, ok := repo.db.table[id]; ok {
		return repo.clone(*org), nil
	}
	return organization.Organization{}, organization.ErrNotFound
}

func (repo *organizationRepository) Update(_ context.Context, org organization.Organization) (organization.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[org.ID]; !ok {
		return organization.Organization{}, organization.ErrNotFound
	}
	org = repo.clone(org)
	repo.db.table[org.ID] = &org
	return repo.clone(org), nil
}

func (repo *organizationRepository) Delete(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return organization.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *organizationRepository) Count(_ context.Context, filter organization.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}
