package organization

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var Statuses = []string{StatusActive, StatusInactive}

type Organization struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	Status                string    `json:"status"`
	AssignedLearningPaths []string  `json:"assigned_learning_paths"` // learning path ids
	AssignedAssessments   []string  `json:"assigned_assessments"`    // assessment codes
	CreatedAt             time.Time `json:"created_at"`              // UTC
	UpdatedAt             time.Time `json:"updated_at"`              // UTC
}

func (o *Organization) IsActive() bool {
	return o.Status == StatusActive
}

func (o *Organization) HasLearningPath(id string) bool {
	return core.Contains(o.AssignedLearningPaths, id)
}

func (o *Organization) HasAssessment(code string) bool {
	return core.Contains(o.AssignedAssessments, code)
}

// NewOrganization contains information needed to create a new Organization.
type NewOrganization struct {
	Name                  string   `json:"name" validate:"required,max=255"`
	Description           string   `json:"description"`
	Status                string   `json:"status" validate:"required,oneof=active inactive"`
	AssignedLearningPaths []string `json:"assigned_learning_paths"`
	AssignedAssessments   []string `json:"assigned_assessments"`
}

func (no *NewOrganization) Validate(validate *validator.Validate) error {
	no.Name = core.CleanString(no.Name)
	no.Description = core.CleanString(no.Description)
	no.Status = core.CleanString(no.Status, true /* lower */)
	if no.Status == "" {
		no.Status = StatusActive
	}
	no.AssignedLearningPaths = core.UniqueStrings(core.CleanStrings(no.AssignedLearningPaths))
	no.AssignedAssessments = normalizeCodes(no.AssignedAssessments)
	return validate.Struct(no)
}

// UpdateOrganization carries the whole row: omitted assignment lists are saved as empty.
type UpdateOrganization struct {
	Name                  string   `json:"name" validate:"required,max=255"`
	Description           string   `json:"description"`
	Status                string   `json:"status" validate:"required,oneof=active inactive"`
	AssignedLearningPaths []string `json:"assigned_learning_paths"`
	AssignedAssessments   []string `json:"assigned_assessments"`
}

func (uo *UpdateOrganization) Validate(validate *validator.Validate) error {
	uo.Name = core.CleanString(uo.Name)
	uo.Description = core.CleanString(uo.Description)
	uo.Status = core.CleanString(uo.Status, true /* lower */)
	uo.AssignedLearningPaths = core.UniqueStrings(core.CleanStrings(uo.AssignedLearningPaths))
	uo.AssignedAssessments = normalizeCodes(uo.AssignedAssessments)
	return validate.Struct(uo)
}

// normalizeCodes matches codes the way the assessment catalog stores them.
func normalizeCodes(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = assessment.NormalizeCode(code); code != "" {
			normalized = append(normalized, code)
		}
	}
	return core.UniqueStrings(normalized)
}

type QueryFilter struct {
	Search string   `query:"search"`
	Status string   `query:"status"`
	IDs    []string `query:"id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.IDs == nil
}

// Clean normalizes the filter; the "all" sentinel disables a filter.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	if qf.Status == "all" {
		qf.Status = ""
	}
}
