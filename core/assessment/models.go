package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/varadc-2304/admin-command-station/core"
)

// Types
const (
	TypeQuiz       = "quiz"
	TypeAssignment = "assignment"
	TypeProject    = "project"
)

// Difficulties
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

var (
	Types        = []string{TypeQuiz, TypeAssignment, TypeProject}
	Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
	Statuses     = []string{StatusDraft, StatusPublished}
)

type Assessment struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Duration     int       `json:"duration"` // minutes
	Questions    int       `json:"questions"`
	Difficulty   string    `json:"difficulty"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	PassingScore int       `json:"passing_score"` // percent
	CreatedAt    time.Time `json:"created_at"`    // UTC
	UpdatedAt    time.Time `json:"updated_at"`    // UTC
}

func (a *Assessment) IsPublished() bool {
	return a.Status == StatusPublished
}

// FormattedDuration is Duration as displayed in lists, e.g. "1h 30m".
func (a *Assessment) FormattedDuration() string {
	return FormatDuration(a.Duration)
}

// FormatDuration formats `minutes` as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours, mins := minutes/60, minutes%60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// NewAssessment contains information needed to create a new Assessment.
type NewAssessment struct {
	Code         string `json:"code" validate:"required,assessmentcode"`
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	Type         string `json:"type" validate:"required,oneof=quiz assignment project"`
	Duration     int    `json:"duration" validate:"min=0"`
	Questions    int    `json:"questions" validate:"min=0"`
	Difficulty   string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Category     string `json:"category" validate:"max=128"`
	Status       string `json:"status" validate:"required,oneof=draft published"`
	PassingScore int    `json:"passing_score" validate:"min=0,max=100"`
}

func (na *NewAssessment) Validate(validate *validator.Validate) error {
	na.Code = NormalizeCode(na.Code)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Type = core.CleanString(na.Type, true /* lower */)
	na.Difficulty = core.CleanString(na.Difficulty, true /* lower */)
	na.Category = core.CleanString(na.Category)
	na.Status = core.CleanString(na.Status, true /* lower */)
	if na.Status == "" {
		na.Status = StatusDraft
	}
	return validate.Struct(na)
}

// UpdateAssessment carries the whole row. The code cannot change: it is what organizations reference.
type UpdateAssessment struct {
	Code         string `json:"code"`
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	Type         string `json:"type" validate:"required,oneof=quiz assignment project"`
	Duration     int    `json:"duration" validate:"min=0"`
	Questions    int    `json:"questions" validate:"min=0"`
	Difficulty   string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Category     string `json:"category" validate:"max=128"`
	Status       string `json:"status" validate:"required,oneof=draft published"`
	PassingScore int    `json:"passing_score" validate:"min=0,max=100"`
}

func (ua *UpdateAssessment) Validate(orig Assessment, validate *validator.Validate) error {
	ua.Code = NormalizeCode(ua.Code)
	if ua.Code != "" && ua.Code != orig.Code {
		return core.NewValidationError(ErrCodeImmutable, core.FieldError{Field: "code", Error: ErrCodeImmutable.Error()})
	}
	ua.Code = orig.Code
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	ua.Type = core.CleanString(ua.Type, true /* lower */)
	ua.Difficulty = core.CleanString(ua.Difficulty, true /* lower */)
	ua.Category = core.CleanString(ua.Category)
	ua.Status = core.CleanString(ua.Status, true /* lower */)
	return validate.Struct(ua)
}

// NormalizeCode trims and upper-cases an assessment code.
func NormalizeCode(code string) string {
	return core.CleanString(strings.ToUpper(code))
}

type QueryFilter struct {
	Search     string   `query:"search"`
	Type       string   `query:"type"`
	Difficulty string   `query:"difficulty"`
	Category   string   `query:"category"`
	Status     string   `query:"status"`
	Codes      []string `query:"code"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Type == "" && qf.Difficulty == "" && qf.Category == "" && qf.Status == "" && qf.Codes == nil
}

// Clean normalizes the filter; the "all" sentinel disables a filter.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
	qf.Category = core.CleanString(qf.Category)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	for _, fld := range []*string{&qf.Type, &qf.Difficulty, &qf.Category, &qf.Status} {
		if *fld == "all" {
			*fld = ""
		}
	}
	for i, code := range qf.Codes {
		qf.Codes[i] = NormalizeCode(code)
	}
}
