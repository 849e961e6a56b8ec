package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/user"
)

const userColumns = "id, name, email, role, organization_id, status, created_at, updated_at"

type userRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Email          string      `db:"email"`
	Role           string      `db:"role"`
	OrganizationID null.String `db:"organization_id"`
	Status         string      `db:"status"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (row userRow) user() user.User {
	return user.User{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		Role:           row.Role,
		OrganizationID: row.OrganizationID,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	exec sqlx.ExtContext
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec sqlx.ExtContext) *userRepository {
	return &userRepository{exec: exec}
}

// trapErr maps psql "no rows" err to user.ErrNotFound and unique violations to user.ErrEmailExists
func (repo *userRepository) trapErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	if isUniqueViolation(err) {
		return user.ErrEmailExists
	}
	return errors.Wrap(err, msg)
}

// organizationID is the column value of `id`: NULL when unset.
// An id that is not a UUID cannot match any organization either.
func (repo *userRepository) organizationID(id null.String) null.String {
	if !id.Valid || !isValidUUID(id.String) {
		return null.String{}
	}
	return id
}

func (repo *userRepository) where(filter user.QueryFilter) (*where, bool) {
	w := new(where)
	if filter.OrganizationID != "" {
		if !isValidUUID(filter.OrganizationID) {
			return nil, false
		}
		w.add("organization_id = ?", filter.OrganizationID)
	}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	w.search(filter.Search, "name", "email")
	return w, true
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	w := new(where)
	w.add("email = ?", email)
	if ids := validUUIDs(excludedIDs); len(ids) > 0 {
		w.add("id NOT IN (?)", ids)
	}

	var exists bool
	if err := getIn(ctx, repo.exec, &exists, "SELECT EXISTS (SELECT 1 FROM users"+w.String()+")", w.args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) Create(ctx context.Context, usr user.User) (user.User, error) {
	q := "INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := execute(ctx, repo.exec, q,
		usr.ID, usr.Name, usr.Email, usr.Role, repo.organizationID(usr.OrganizationID), usr.Status,
		usr.CreatedAt.UTC(), usr.UpdatedAt.UTC())
	if err != nil {
		return user.User{}, repo.trapErr(err, "inserting user")
	}
	return repo.Get(ctx, usr.ID)
}

func (repo *userRepository) Query(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	w, ok := repo.where(filter)
	if !ok {
		return []user.User{}, nil
	}
	q := "SELECT " + userColumns + " FROM users" + w.String() +
		orderBy(ordering, user.OrderingFields, core.DBOrdering{Field: "name", Ascending: true})

	var rows []userRow
	if err := selectIn(ctx, repo.exec, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

func (repo *userRepository) Get(ctx context.Context, id string) (user.User, error) {
	if !isValidUUID(id) {
		return user.User{}, user.ErrNotFound
	}
	var row userRow
	q := "SELECT " + userColumns + " FROM users WHERE id = ?"
	if err := getIn(ctx, repo.exec, &row, q, id); err != nil {
		return user.User{}, repo.trapErr(err, "finding user by ID")
	}
	return row.user(), nil
}

func (repo *userRepository) Update(ctx context.Context, usr user.User) (user.User, error) {
	if !isValidUUID(usr.ID) {
		return user.User{}, user.ErrNotFound
	}
	q := `UPDATE users
		SET name = ?, email = ?, role = ?, organization_id = ?, status = ?, updated_at = ?
		WHERE id = ?`
	n, err := execute(ctx, repo.exec, q,
		usr.Name, usr.Email, usr.Role, repo.organizationID(usr.OrganizationID), usr.Status,
		usr.UpdatedAt.UTC(), usr.ID)
	if err != nil {
		return user.User{}, repo.trapErr(err, "updating user")
	}
	if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.Get(ctx, usr.ID)
}

func (repo *userRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return user.ErrNotFound
	}
	n, err := execute(ctx, repo.exec, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) Count(ctx context.Context, filter user.QueryFilter) (int, error) {
	w, ok := repo.where(filter)
	if !ok {
		return 0, nil
	}
	var count int
	if err := getIn(ctx, repo.exec, &count, "SELECT COUNT(*) FROM users"+w.String(), w.args...); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}
