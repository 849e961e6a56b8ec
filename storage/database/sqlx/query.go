// Package sqlxrepos implements the repositories on postgres with sqlx.
package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/varadc-2304/admin-command-station/core"
)

const uniqueViolation = "23505"

type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) search(search string, columns ...string) {
	if search == "" {
		return
	}
	val := "%" + search + "%"
	ors := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, col+" ILIKE ?")
		args = append(args, val)
	}
	w.add("("+strings.Join(ors, " OR ")+")", args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderBy builds an ORDER BY clause out of the `allowed` fields of `ordering`, or `defaults`.
func orderBy(ordering []core.DBOrdering, allowed []string, defaults ...core.DBOrdering) string {
	list := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if core.Contains(allowed, ord.Field) {
			list = append(list, ord.String())
		}
	}
	if len(list) == 0 {
		for _, ord := range defaults {
			list = append(list, ord.String())
		}
	}
	if len(list) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(list, ", ")
}

// selectIn runs a SELECT whose `?` args may hold slices to expand for IN clauses.
func selectIn(ctx context.Context, exec sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func getIn(ctx context.Context, exec sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func execute(ctx context.Context, exec sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	res, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// validUUIDs drops the ids that are not UUIDs: postgres rejects them on uuid columns.
func validUUIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

func isValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}
