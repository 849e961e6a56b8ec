package learningpath

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/varadc-2304/admin-command-station/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("learning path not found")

	// OrderingFields are the fields a list of learning paths can be ordered by.
	OrderingFields = []string{"title", "difficulty", "modules", "category", "status", "created_at", "updated_at"}
)

type (
	Repository interface {
		Create(ctx context.Context, lp LearningPath) (LearningPath, error)
		// Query applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on LearningPath.Title, Description or Category.
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]LearningPath, error)
		Get(ctx context.Context, id string) (LearningPath, error)
		Update(ctx context.Context, lp LearningPath) (LearningPath, error)
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

func (svc *Service) Create(ctx context.Context, nlp NewLearningPath) (LearningPath, error) {
	now := time.Now().UTC()
	lp := LearningPath{
		ID:          uuid.New().String(),
		Title:       nlp.Title,
		Description: nlp.Description,
		Difficulty:  nlp.Difficulty,
		Duration:    nlp.Duration,
		Modules:     nlp.Modules,
		Category:    nlp.Category,
		Status:      nlp.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.Create(ctx, lp)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]LearningPath, error) {
	return svc.repo.Query(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (LearningPath, error) {
	return svc.repo.Get(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ulp UpdateLearningPath) (LearningPath, error) {
	orig, err := svc.repo.Get(ctx, id)
	if err != nil {
		return LearningPath{}, err
	}
	lp := LearningPath{
		ID:          id,
		Title:       ulp.Title,
		Description: ulp.Description,
		Difficulty:  ulp.Difficulty,
		Duration:    ulp.Duration,
		Modules:     ulp.Modules,
		Category:    ulp.Category,
		Status:      ulp.Status,
		CreatedAt:   orig.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.Update(ctx, lp)
}

// Delete removes learning path `id`; organizations still referencing it keep a dangling reference.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}

func (svc *Service) Count(ctx context.Context, filter QueryFilter) (int, error) {
	return svc.repo.Count(ctx, filter)
}

// TotalModules sums the module count of the learning paths matching `filter`.
func (svc *Service) TotalModules(ctx context.Context, filter QueryFilter) (int, error) {
	paths, err := svc.repo.Query(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	var total int
	for _, lp := range paths {
		total += lp.Modules
	}
	return total, nil
}
