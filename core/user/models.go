package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/varadc-2304/admin-command-station/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"

	// RoleSuperadmin is held by the console operator only; it is never stored on a User.
	RoleSuperadmin = "superadmin"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	AllRoles = []string{RoleAdmin, RoleStudent}
	Statuses = []string{StatusActive, StatusInactive}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           string      `json:"role"`
	OrganizationID null.String `json:"organization_id"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"` // UTC; shown as the join date
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name           string      `json:"name" validate:"required,max=255"`
	Email          string      `json:"email" validate:"required,email,max=255"`
	Role           string      `json:"role" validate:"required,userrole"`
	OrganizationID null.String `json:"organization_id"`
	Status         string      `json:"status" validate:"required,oneof=active inactive"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.OrganizationID = cleanOrganizationID(nu.OrganizationID)
	nu.Status = core.CleanString(nu.Status, true /* lower */)
	if nu.Status == "" {
		nu.Status = StatusActive
	}
	if nu.Role == RoleSuperadmin {
		return core.NewValidationError(ErrReservedRole, core.FieldError{Field: "role", Error: ErrReservedRole.Error()})
	}
	return validate.Struct(nu)
}

// UpdateUser carries the whole row: a missing organization_id detaches the user.
type UpdateUser struct {
	Name           string      `json:"name" validate:"required,max=255"`
	Email          string      `json:"email" validate:"required,email,max=255"`
	Role           string      `json:"role" validate:"required,userrole"`
	OrganizationID null.String `json:"organization_id"`
	Status         string      `json:"status" validate:"required,oneof=active inactive"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	uu.Role = core.CleanString(uu.Role, true /* lower */)
	uu.OrganizationID = cleanOrganizationID(uu.OrganizationID)
	uu.Status = core.CleanString(uu.Status, true /* lower */)
	if uu.Role == RoleSuperadmin {
		return core.NewValidationError(ErrReservedRole, core.FieldError{Field: "role", Error: ErrReservedRole.Error()})
	}
	return validate.Struct(uu)
}

func cleanOrganizationID(id null.String) null.String {
	if !id.Valid {
		return id
	}
	cleaned := core.CleanString(id.String)
	return null.NewString(cleaned, cleaned != "")
}

type QueryFilter struct {
	Search         string `query:"search"`
	OrganizationID string `query:"organization"`
	Role           string `query:"role"`
	Status         string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.OrganizationID == "" && qf.Role == "" && qf.Status == ""
}

// Clean normalizes the filter; the "all" sentinel disables a filter.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.OrganizationID = core.CleanString(qf.OrganizationID)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	for _, fld := range []*string{&qf.OrganizationID, &qf.Role, &qf.Status} {
		if *fld == "all" {
			*fld = ""
		}
	}
}
