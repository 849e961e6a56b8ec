package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("assessment not found")
	ErrCodeExists    = errors.New("an assessment with this code already exists")
	ErrCodeImmutable = errors.New("the code of an assessment cannot be changed")

	// OrderingFields are the fields a list of assessments can be ordered by.
	OrderingFields = []string{"code", "title", "type", "duration", "difficulty", "category", "status", "created_at", "updated_at"}
)

type (
	Repository interface {
		// Create returns ErrCodeExists when the code is taken.
		Create(ctx context.Context, a Assessment) (Assessment, error)
		// Query applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Assessment.Title, Code, Description or Category.
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Assessment, error)
		Get(ctx context.Context, id string) (Assessment, error)
		GetByCode(ctx context.Context, code string) (Assessment, error)
		Update(ctx context.Context, a Assessment) (Assessment, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context, filter QueryFilter) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkCodeUniqueness(ctx context.Context, code string) error {
	_, err := svc.repo.GetByCode(ctx, code)
	switch {
	case err == nil:
		return core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	case errors.Cause(err) == ErrNotFound:
		return nil
	default:
		return errors.Wrap(err, "finding assessment by code")
	}
}

func (svc *Service) Create(ctx context.Context, na NewAssessment) (Assessment, error) {
	if err := svc.checkCodeUniqueness(ctx, na.Code); err != nil {
		return Assessment{}, err
	}

	now := time.Now().UTC()
	a := Assessment{
		ID:           uuid.New().String(),
		Code:         na.Code,
		Title:        na.Title,
		Description:  na.Description,
		Type:         na.Type,
		Duration:     na.Duration,
		Questions:    na.Questions,
		Difficulty:   na.Difficulty,
		Category:     na.Category,
		Status:       na.Status,
		PassingScore: na.PassingScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	a, err := svc.repo.Create(ctx, a)
	if errors.Cause(err) == ErrCodeExists { // lost a race against another create
		return Assessment{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	}
	return a, err
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Assessment, error) {
	return svc.repo.Query(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Assessment, error) {
	return svc.repo.Get(ctx, id)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Assessment, error) {
	return svc.repo.GetByCode(ctx, NormalizeCode(code))
}

// Update overwrites assessment `orig` with `ua`; ua must have been validated against orig.
func (svc *Service) Update(ctx context.Context, orig Assessment, ua UpdateAssessment) (Assessment, error) {
	a := Assessment{
		ID:           orig.ID,
		Code:         orig.Code,
		Title:        ua.Title,
		Description:  ua.Description,
		Type:         ua.Type,
		Duration:     ua.Duration,
		Questions:    ua.Questions,
		Difficulty:   ua.Difficulty,
		Category:     ua.Category,
		Status:       ua.Status,
		PassingScore: ua.PassingScore,
		CreatedAt:    orig.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	return svc.repo.Update(ctx, a)
}

// Delete removes assessment `id`; organizations still referencing its code keep a dangling reference.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}

func (svc *Service) Count(ctx context.Context, filter QueryFilter) (int, error) {
	return svc.repo.Count(ctx, filter)
}
