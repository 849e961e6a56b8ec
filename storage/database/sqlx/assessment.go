package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
)

const assessmentColumns = "id, code, title, description, type, duration, questions, difficulty, category, status, passing_score, created_at, updated_at"

type assessmentRow struct {
	ID           string    `db:"id"`
	Code         string    `db:"code"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Type         string    `db:"type"`
	Duration     int       `db:"duration"`
	Questions    int       `db:"questions"`
	Difficulty   string    `db:"difficulty"`
	Category     string    `db:"category"`
	Status       string    `db:"status"`
	PassingScore int       `db:"passing_score"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row assessmentRow) assessment() assessment.Assessment {
	return assessment.Assessment{
		ID:           row.ID,
		Code:         row.Code,
		Title:        row.Title,
		Description:  row.Description,
		Type:         row.Type,
		Duration:     row.Duration,
		Questions:    row.Questions,
		Difficulty:   row.Difficulty,
		Category:     row.Category,
		Status:       row.Status,
		PassingScore: row.PassingScore,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

type assessmentRepository struct {
	exec sqlx.ExtContext
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(exec sqlx.ExtContext) *assessmentRepository {
	return &assessmentRepository{exec: exec}
}

// trapErr maps psql "no rows" err to assessment.ErrNotFound and unique violations to assessment.ErrCodeExists
func (repo *assessmentRepository) trapErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return assessment.ErrNotFound
	}
	if isUniqueViolation(err) {
		return assessment.ErrCodeExists
	}
	return errors.Wrap(err, msg)
}

func (repo *assessmentRepository) where(filter assessment.QueryFilter) (*where, bool) {
	w := new(where)
	if filter.Codes != nil {
		if len(filter.Codes) == 0 {
			return nil, false
		}
		w.add("code IN (?)", filter.Codes)
	}
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
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
	w.search(filter.Search, "title", "code", "description", "category")
	return w, true
}

func (repo *assessmentRepository) Create(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	q := "INSERT INTO assessments (" + assessmentColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := execute(ctx, repo.exec, q,
		a.ID, a.Code, a.Title, a.Description, a.Type, a.Duration, a.Questions, a.Difficulty, a.Category,
		a.Status, a.PassingScore, a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		return assessment.Assessment{}, repo.trapErr(err, "inserting assessment")
	}
	return repo.Get(ctx, a.ID)
}

func (repo *assessmentRepository) Query(ctx context.Context, filter assessment.QueryFilter, ordering []core.DBOrdering) ([]assessment.Assessment, error) {
	w, ok := repo.where(filter)
	if !ok {
		return []assessment.Assessment{}, nil
	}
	q := "SELECT " + assessmentColumns + " FROM assessments" + w.String() +
		orderBy(ordering, assessment.OrderingFields, core.DBOrdering{Field: "code", Ascending: true})

	var rows []assessmentRow
	if err := selectIn(ctx, repo.exec, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	items := make([]assessment.Assessment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.assessment())
	}
	return items, nil
}

func (repo *assessmentRepository) Get(ctx context.Context, id string) (assessment.Assessment, error) {
	if !isValidUUID(id) {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	var row assessmentRow
	q := "SELECT " + assessmentColumns + " FROM assessments WHERE id = ?"
	if err := getIn(ctx, repo.exec, &row, q, id); err != nil {
		return assessment.Assessment{}, repo.trapErr(err, "finding assessment by ID")
	}
	return row.assessment(), nil
}

func (repo *assessmentRepository) GetByCode(ctx context.Context, code string) (assessment.Assessment, error) {
	var row assessmentRow
	q := "SELECT " + assessmentColumns + " FROM assessments WHERE code = ?"
	if err := getIn(ctx, repo.exec, &row, q, code); err != nil {
		return assessment.Assessment{}, repo.trapErr(err, "finding assessment by code")
	}
	return row.assessment(), nil
}

func (repo *assessmentRepository) Update(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	if !isValidUUID(a.ID) {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	// the code is left out: it never changes
	q := `UPDATE assessments
		SET title = ?, description = ?, type = ?, duration = ?, questions = ?, difficulty = ?, category = ?,
			status = ?, passing_score = ?, updated_at = ?
		WHERE id = ?`
	n, err := execute(ctx, repo.exec, q,
		a.Title, a.Description, a.Type, a.Duration, a.Questions, a.Difficulty, a.Category,
		a.Status, a.PassingScore, a.UpdatedAt.UTC(), a.ID)
	if err != nil {
		return assessment.Assessment{}, repo.trapErr(err, "updating assessment")
	}
	if n == 0 {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	return repo.Get(ctx, a.ID)
}

func (repo *assessmentRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return assessment.ErrNotFound
	}
	n, err := execute(ctx, repo.exec, "DELETE FROM assessments WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting assessment")
	}
	if n == 0 {
		return assessment.ErrNotFound
	}
	return nil
}

func (repo *assessmentRepository) Count(ctx context.Context, filter assessment.QueryFilter) (int, error) {
	w, ok := repo.where(filter)
	if !ok {
		return 0, nil
	}
	var count int
	if err := getIn(ctx, repo.exec, &count, "SELECT COUNT(*) FROM assessments"+w.String(), w.args...); err != nil {
		return 0, errors.Wrap(err, "counting assessments")
	}
	return count, nil
}
