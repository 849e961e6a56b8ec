package learningpath

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/varadc-2304/admin-command-station/core"
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
	Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
	Statuses     = []string{StatusDraft, StatusPublished}
)

type LearningPath struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Duration    string    `json:"duration"` // free text, e.g. "8 weeks"
	Modules     int       `json:"modules"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

func (lp *LearningPath) IsPublished() bool {
	return lp.Status == StatusPublished
}

// NewLearningPath contains information needed to create a new LearningPath.
type NewLearningPath struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Duration    string `json:"duration" validate:"max=64"`
	Modules     int    `json:"modules" validate:"min=0"`
	Category    string `json:"category" validate:"max=128"`
	Status      string `json:"status" validate:"required,oneof=draft published"`
}

func (nlp *NewLearningPath) Validate(validate *validator.Validate) error {
	nlp.Title = core.CleanString(nlp.Title)
	nlp.Description = core.CleanString(nlp.Description)
	nlp.Difficulty = core.CleanString(nlp.Difficulty, true /* lower */)
	nlp.Duration = core.CleanString(nlp.Duration)
	nlp.Category = core.CleanString(nlp.Category)
	nlp.Status = core.CleanString(nlp.Status, true /* lower */)
	if nlp.Status == "" {
		nlp.Status = StatusDraft
	}
	return validate.Struct(nlp)
}

// UpdateLearningPath carries the whole row.
type UpdateLearningPath NewLearningPath

func (ulp *UpdateLearningPath) Validate(validate *validator.Validate) error {
	ulp.Title = core.CleanString(ulp.Title)
	ulp.Description = core.CleanString(ulp.Description)
	ulp.Difficulty = core.CleanString(ulp.Difficulty, true /* lower */)
	ulp.Duration = core.CleanString(ulp.Duration)
	ulp.Category = core.CleanString(ulp.Category)
	ulp.Status = core.CleanString(ulp.Status, true /* lower */)
	return validate.Struct(ulp)
}

type QueryFilter struct {
	Search     string   `query:"search"`
	Difficulty string   `query:"difficulty"`
	Category   string   `query:"category"`
	Status     string   `query:"status"`
	IDs        []string `query:"id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Difficulty == "" && qf.Category == "" && qf.Status == "" && qf.IDs == nil
}

// Clean normalizes the filter; the "all" sentinel disables a filter.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
	qf.Category = core.CleanString(qf.Category)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	for _, fld := range []*string{&qf.Difficulty, &qf.Category, &qf.Status} {
		if *fld == "all" {
			*fld = ""
		}
	}
}
