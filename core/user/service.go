package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrReservedRole         = errors.New("the superadmin role cannot be assigned")
	ErrOrganizationNotFound = errors.New("organization does not exist")

	// OrderingFields are the fields a list of users can be ordered by.
	OrderingFields = []string{"name", "email", "role", "status", "created_at", "updated_at"}
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists if a User other than `excludedIDs` holds `email`.
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error
		Create(ctx context.Context, usr User) (User, error)
		// Query applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.Name or User.Email.
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error)
		Get(ctx context.Context, id string) (User, error)
		Update(ctx context.Context, usr User) (User, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context, filter QueryFilter) (int, error)
	}

	// OrganizationLookup resolves organization names; it returns a not-found error for unknown ids.
	OrganizationLookup interface {
		OrganizationName(ctx context.Context, id string) (string, error)
	}

	Service struct {
		repo     Repository
		orgs     OrganizationLookup
		emailSvc core.EmailService
	}
)

func NewService(repo Repository, orgs OrganizationLookup, emailSvc core.EmailService) *Service {
	return &Service{repo: repo, orgs: orgs, emailSvc: emailSvc}
}

func (svc *Service) checkEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

// organizationName returns "" when the user has no organization.
func (svc *Service) organizationName(ctx context.Context, orgID string) (string, error) {
	if orgID == "" || svc.orgs == nil {
		return "", nil
	}
	name, err := svc.orgs.OrganizationName(ctx, orgID)
	if err != nil {
		if core.IsNotFound(err) {
			return "", core.NewValidationError(ErrOrganizationNotFound, core.FieldError{Field: "organization_id", Error: ErrOrganizationNotFound.Error()})
		}
		return "", errors.Wrap(err, "finding organization")
	}
	return name, nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}
	orgName, err := svc.organizationName(ctx, nu.OrganizationID.String)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		ID:             uuid.New().String(),
		Name:           nu.Name,
		Email:          nu.Email,
		Role:           nu.Role,
		OrganizationID: nu.OrganizationID,
		Status:         nu.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	usr, err = svc.repo.Create(ctx, usr)
	if err != nil {
		return User{}, err
	}

	if svc.emailSvc != nil && usr.IsActive() {
		svc.emailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Welcome aboard",
			TemplateName: "welcome",
			TemplateData: welcomeData{
				Name:             usr.Name,
				Email:            usr.Email,
				Role:             usr.Role,
				OrganizationName: orgName,
			},
		})
	}
	return usr, nil
}

type welcomeData struct {
	Name             string
	Email            string
	Role             string
	OrganizationName string
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.Query(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (User, error) {
	return svc.repo.Get(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	orig, err := svc.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := svc.checkEmailUniqueness(ctx, uu.Email, id); err != nil {
		return User{}, err
	}
	// a stored dangling organization is kept as is
	if uu.OrganizationID.String != orig.OrganizationID.String {
		if _, err := svc.organizationName(ctx, uu.OrganizationID.String); err != nil {
			return User{}, err
		}
	}

	usr := User{
		ID:             id,
		Name:           uu.Name,
		Email:          uu.Email,
		Role:           uu.Role,
		OrganizationID: uu.OrganizationID,
		Status:         uu.Status,
		CreatedAt:      orig.CreatedAt,
		UpdatedAt:      time.Now().UTC(),
	}
	return svc.repo.Update(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}

func (svc *Service) Count(ctx context.Context, filter QueryFilter) (int, error) {
	return svc.repo.Count(ctx, filter)
}
