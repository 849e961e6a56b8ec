package organization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("organization not found")

	// OrderingFields are the fields a list of organizations can be ordered by.
	OrderingFields = []string{"name", "status", "created_at", "updated_at"}
)

type (
	Repository interface {
		Create(ctx context.Context, org Organization) (Organization, error)
		// Query applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Organization.Name or Organization.Description.
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Organization, error)
		Get(ctx context.Context, id string) (Organization, error)
		// Update overwrites the whole row.
		Update(ctx context.Context, org Organization) (Organization, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context, filter QueryFilter) (int, error)
	}

	// Catalog reports the learning paths and assessments that do not exist.
	Catalog interface {
		MissingLearningPaths(ctx context.Context, ids []string) ([]string, error)
		MissingAssessments(ctx context.Context, codes []string) ([]string, error)
	}

	Service struct {
		repo    Repository
		catalog Catalog
	}
)

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// checkCatalog rejects references that are not stored yet and point to nothing.
// Dangling references already stored on `orig` are left alone.
func (svc *Service) checkCatalog(ctx context.Context, orig Organization, paths, codes []string) error {
	if svc.catalog == nil {
		return nil
	}

	newPaths := core.Without(paths, orig.AssignedLearningPaths...)
	if len(newPaths) > 0 {
		missing, err := svc.catalog.MissingLearningPaths(ctx, newPaths)
		if err != nil {
			return errors.Wrap(err, "checking learning paths")
		}
		if len(missing) > 0 {
			msg := fmt.Sprintf("unknown learning path(s): %s", strings.Join(missing, ", "))
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "assigned_learning_paths", Error: msg})
		}
	}

	newCodes := core.Without(codes, orig.AssignedAssessments...)
	if len(newCodes) > 0 {
		missing, err := svc.catalog.MissingAssessments(ctx, newCodes)
		if err != nil {
			return errors.Wrap(err, "checking assessments")
		}
		if len(missing) > 0 {
			msg := fmt.Sprintf("unknown assessment(s): %s", strings.Join(missing, ", "))
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "assigned_assessments", Error: msg})
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, no NewOrganization) (Organization, error) {
	if err := svc.checkCatalog(ctx, Organization{}, no.AssignedLearningPaths, no.AssignedAssessments); err != nil {
		return Organization{}, err
	}

	now := time.Now().UTC()
	org := Organization{
		ID:                    uuid.New().String(),
		Name:                  no.Name,
		Description:           no.Description,
		Status:                no.Status,
		AssignedLearningPaths: core.UniqueStrings(no.AssignedLearningPaths),
		AssignedAssessments:   core.UniqueStrings(no.AssignedAssessments),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	return svc.repo.Create(ctx, org)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Organization, error) {
	return svc.repo.Query(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Organization, error) {
	return svc.repo.Get(ctx, id)
}

func (svc *Service) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := svc.repo.Get(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// OrganizationName returns the name of organization `id`, or ErrNotFound.
func (svc *Service) OrganizationName(ctx context.Context, id string) (string, error) {
	org, err := svc.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return org.Name, nil
}

// Update overwrites organization `id` with `uo`, assignment sets included (last write wins).
func (svc *Service) Update(ctx context.Context, id string, uo UpdateOrganization) (Organization, error) {
	orig, err := svc.repo.Get(ctx, id)
	if err != nil {
		return Organization{}, err
	}
	if err := svc.checkCatalog(ctx, orig, uo.AssignedLearningPaths, uo.AssignedAssessments); err != nil {
		return Organization{}, err
	}

	org := Organization{
		ID:                    id,
		Name:                  uo.Name,
		Description:           uo.Description,
		Status:                uo.Status,
		AssignedLearningPaths: core.UniqueStrings(uo.AssignedLearningPaths),
		AssignedAssessments:   core.UniqueStrings(uo.AssignedAssessments),
		CreatedAt:             orig.CreatedAt,
		UpdatedAt:             time.Now().UTC(),
	}
	return svc.repo.Update(ctx, org)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}

func (svc *Service) Count(ctx context.Context, filter QueryFilter) (int, error) {
	return svc.repo.Count(ctx, filter)
}
