package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/organization"
)

const organizationColumns = "id, name, description, status, assigned_learning_paths, assigned_assessments, created_at, updated_at"

type organizationRow struct {
	ID                    string         `db:"id"`
	Name                  string         `db:"name"`
	Description           string         `db:"description"`
	Status                string         `db:"status"`
	AssignedLearningPaths pq.StringArray `db:"assigned_learning_paths"`
	AssignedAssessments   pq.StringArray `db:"assigned_assessments"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (row organizationRow) organization() organization.Organization {
	return organization.Organization{
		ID:                    row.ID,
		Name:                  row.Name,
		Description:           row.Description,
		Status:                row.Status,
		AssignedLearningPaths: append([]string{}, row.AssignedLearningPaths...),
		AssignedAssessments:   append([]string{}, row.AssignedAssessments...),
		CreatedAt:             row.CreatedAt.UTC(),
		UpdatedAt:             row.UpdatedAt.UTC(),
	}
}

type organizationRepository struct {
	exec sqlx.ExtContext
}

var _ organization.Repository = (*organizationRepository)(nil) // interface compliance check

func NewOrganizationRepository(exec sqlx.ExtContext) *organizationRepository {
	return &organizationRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to organization.ErrNotFound
func (repo *organizationRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return organization.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *organizationRepository) where(filter organization.QueryFilter) (*where, bool) {
	w := new(where)
	if filter.IDs != nil {
		ids := validUUIDs(filter.IDs)
		if len(ids) == 0 {
			return nil, false
		}
		w.add("id IN (?)", ids)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	w.search(filter.Search, "name", "description")
	return w, true
}

func (repo *organizationRepository) Create(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	q := "INSERT INTO organizations (" + organizationColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := execute(ctx, repo.exec, q,
		org.ID, org.Name, org.Description, org.Status,
		pq.StringArray(core.UniqueStrings(org.AssignedLearningPaths)),
		pq.StringArray(core.UniqueStrings(org.AssignedAssessments)),
		org.CreatedAt.UTC(), org.UpdatedAt.UTC())
	if err != nil {
		return organization.Organization{}, errors.Wrap(err, "inserting organization")
	}
	return repo.Get(ctx, org.ID)
}

func (repo *organizationRepository) Query(ctx context.Context, filter organization.QueryFilter, ordering []core.DBOrdering) ([]organization.Organization, error) {
	w, ok := repo.where(filter)
	if !ok {
		return []organization.Organization{}, nil
	}
	q := "SELECT " + organizationColumns + " FROM organizations" + w.String() +
		orderBy(ordering, organization.OrderingFields, core.DBOrdering{Field: "name", Ascending: true})

	var rows []organizationRow
	if err := selectIn(ctx, repo.exec, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}
	orgs := make([]organization.Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, row.organization())
	}
	return orgs, nil
}

func (repo *organizationRepository) Get(ctx context.Context, id string) (organization.Organization, error) {
	if !isValidUUID(id) {
		return organization.Organization{}, organization.ErrNotFound
	}
	var row organizationRow
	q := "SELECT " + organizationColumns + " FROM organizations WHERE id = ?"
	if err := getIn(ctx, repo.exec, &row, q, id); err != nil {
		return organization.Organization{}, repo.trapNoRowsErr(err, "finding organization by ID")
	}
	return row.organization(), nil
}

func (repo *organizationRepository) Update(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	if !isValidUUID(org.ID) {
		return organization.Organization{}, organization.ErrNotFound
	}
	q := `UPDATE organizations
		SET name = ?, description = ?, status = ?, assigned_learning_paths = ?, assigned_assessments = ?, updated_at = ?
		WHERE id = ?`
	n, err := execute(ctx, repo.exec, q,
		org.Name, org.Description, org.Status,
		pq.StringArray(core.UniqueStrings(org.AssignedLearningPaths)),
		pq.StringArray(core.UniqueStrings(org.AssignedAssessments)),
		org.UpdatedAt.UTC(), org.ID)
	if err != nil {
		return organization.Organization{}, errors.Wrap(err, "updating organization")
	}
	if n == 0 {
		return organization.Organization{}, organization.ErrNotFound
	}
	return repo.Get(ctx, org.ID)
}

func (repo *organizationRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return organization.ErrNotFound
	}
	n, err := execute(ctx, repo.exec, "DELETE FROM organizations WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting organization")
	}
	if n == 0 {
		return organization.ErrNotFound
	}
	return nil
}

func (repo *organizationRepository) Count(ctx context.Context, filter organization.QueryFilter) (int, error) {
	w, ok := repo.where(filter)
	if !ok {
		return 0, nil
	}
	var count int
	if err := getIn(ctx, repo.exec, &count, "SELECT COUNT(*) FROM organizations"+w.String(), w.args...); err != nil {
		return 0, errors.Wrap(err, "counting organizations")
	}
	return count, nil
}
