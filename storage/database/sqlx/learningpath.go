package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
)

const learningPathColumns = "id, title, description, difficulty, duration, modules, category, status, created_at, updated_at"

type learningPathRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Difficulty  string    `db:"difficulty"`
	Duration    string    `db:"duration"`
	Modules     int       `db:"modules"`
	Category    string    `db:"category"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row learningPathRow) learningPath() learningpath.LearningPath {
	return learningpath.LearningPath{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Difficulty:  row.Difficulty,
		Duration:    row.Duration,
		Modules:     row.Modules,
		Category:    row.Category,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

type learningPathRepository struct {
	exec sqlx.ExtContext
}

var _ learningpath.Repository = (*learningPathRepository)(nil) // interface compliance check

func NewLearningPathRepository(exec sqlx.ExtContext) *learningPathRepository {
	return &learningPathRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to learningpath.ErrNotFound
func (repo *learningPathRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return learningpath.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *learningPathRepository) where(filter learningpath.QueryFilter) (*where, bool) {
	w := new(where)
	if filter.IDs != nil {
		ids := validUUIDs(filter.IDs)
		if len(ids) == 0 {
			return nil, false
		}
		w.add("id IN (?)", ids)
	}
	if filter.Difficulty != "" {
		w.add("difficulty = ?", filter.Difficulty)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	w.search(filter.Search, "title", "description", "category")
	return w, true
}

func (repo *learningPathRepository) Create(ctx context.Context, lp learningpath.LearningPath) (learningpath.LearningPath, error) {
	q := "INSERT INTO learning_paths (" + learningPathColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := execute(ctx, repo.exec, q,
		lp.ID, lp.Title, lp.Description, lp.Difficulty, lp.Duration, lp.Modules, lp.Category, lp.Status,
		lp.CreatedAt.UTC(), lp.UpdatedAt.UTC())
	if err != nil {
		return learningpath.LearningPath{}, errors.Wrap(err, "inserting learning path")
	}
	return repo.Get(ctx, lp.ID)
}

func (repo *learningPathRepository) Query(ctx context.Context, filter learningpath.QueryFilter, ordering []core.DBOrdering) ([]learningpath.LearningPath, error) {
	w, ok := repo.where(filter)
	if !ok {
		return []learningpath.LearningPath{}, nil
	}
	q := "SELECT " + learningPathColumns + " FROM learning_paths" + w.String() +
		orderBy(ordering, learningpath.OrderingFields, core.DBOrdering{Field: "title", Ascending: true})

	var rows []learningPathRow
	if err := selectIn(ctx, repo.exec, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying learning paths")
	}
	paths := make([]learningpath.LearningPath, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, row.learningPath())
	}
	return paths, nil
}

func (repo *learningPathRepository) Get(ctx context.Context, id string) (learningpath.LearningPath, error) {
	if !isValidUUID(id) {
		return learningpath.LearningPath{}, learningpath.ErrNotFound
	}
	var row learningPathRow
	q := "SELECT " + learningPathColumns + " FROM learning_paths WHERE id = ?"
	if err := getIn(ctx, repo.exec, &row, q, id); err != nil {
		return learningpath.LearningPath{}, repo.trapNoRowsErr(err, "finding learning path by ID")
	}
	return row.learningPath(), nil
}

func (repo *learningPathRepository) Update(ctx context.Context, lp learningpath.LearningPath) (learningpath.LearningPath, error) {
	if !isValidUUID(lp.ID) {
		return learningpath.LearningPath{}, learningpath.ErrNotFound
	}
	q := `UPDATE learning_paths
		SET title = ?, description = ?, difficulty = ?, duration = ?, modules = ?, category = ?, status = ?, updated_at = ?
		WHERE id = ?`
	n, err := execute(ctx, repo.exec, q,
		lp.Title, lp.Description, lp.Difficulty, lp.Duration, lp.Modules, lp.Category, lp.Status,
		lp.UpdatedAt.UTC(), lp.ID)
	if err != nil {
		return learningpath.LearningPath{}, errors.Wrap(err, "updating learning path")
	}
	if n == 0 {
		return learningpath.LearningPath{}, learningpath.ErrNotFound
	}
	return repo.Get(ctx, lp.ID)
}

func (repo *learningPathRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return learningpath.ErrNotFound
	}
	n, err := execute(ctx, repo.exec, "DELETE FROM learning_paths WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting learning path")
	}
	if n == 0 {
		return learningpath.ErrNotFound
	}
	return nil
}

func (repo *learningPathRepository) Count(ctx context.Context, filter learningpath.QueryFilter) (int, error) {
	w, ok := repo.where(filter)
	if !ok {
		return 0, nil
	}
	var count int
	if err := getIn(ctx, repo.exec, &count, "SELECT COUNT(*) FROM learning_paths"+w.String(), w.args...); err != nil {
		return 0, errors.Wrap(err, "counting learning paths")
	}
	return count, nil
}
