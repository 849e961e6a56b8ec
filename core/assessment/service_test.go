package assessment_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/storage/database/inmem"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 0, want: "0m"},
		{minutes: 45, want: "45m"},
		{minutes: 59, want: "59m"},
		{minutes: 60, want: "1h"},
		{minutes: 90, want: "1h 30m"},
		{minutes: 180, want: "3h"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, assessment.FormatDuration(tc.minutes))
		})
	}
}

func validNew(code string) assessment.NewAssessment {
	return assessment.NewAssessment{
		Code:         code,
		Title:        "React Basics Quiz",
		Type:         "Quiz",
		Duration:     30,
		Questions:    20,
		Difficulty:   "beginner",
		Category:     "Web Development",
		Status:       "published",
		PassingScore: 70,
	}
}

func TestNewAssessment_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name    string
		modify  func(na *assessment.NewAssessment)
		wantErr bool
	}{
		{name: "valid", modify: func(na *assessment.NewAssessment) {}},
		{name: "code normalized", modify: func(na *assessment.NewAssessment) { na.Code = " js-adv " }},
		{name: "missing code", modify: func(na *assessment.NewAssessment) { na.Code = "" }, wantErr: true},
		{name: "bad code", modify: func(na *assessment.NewAssessment) { na.Code = "QZ 1" }, wantErr: true},
		{name: "bad type", modify: func(na *assessment.NewAssessment) { na.Type = "exam" }, wantErr: true},
		{name: "passing score over 100", modify: func(na *assessment.NewAssessment) { na.PassingScore = 101 }, wantErr: true},
		{name: "negative duration", modify: func(na *assessment.NewAssessment) { na.Duration = -1 }, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			na := validNew("QZ1")
			tc.modify(&na)
			err := na.Validate(validate)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, assessment.TypeQuiz, na.Type)
			assert.Equal(t, assessment.NormalizeCode(na.Code), na.Code)
		})
	}
}

func TestService_CodeUniquenessAndImmutability(t *testing.T) {
	ctx := context.Background()
	validate, _ := core.NewValidator()
	svc := assessment.NewService(inmemdb.NewAssessmentRepository(inmemdb.Open()))

	na := validNew("qz1")
	require.NoError(t, na.Validate(validate))
	a, err := svc.Create(ctx, na)
	require.NoError(t, err)
	assert.Equal(t, "QZ1", a.Code)

	t.Run("duplicate code", func(t *testing.T) {
		dup := validNew("QZ1")
		require.NoError(t, dup.Validate(validate))
		_, err := svc.Create(ctx, dup)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, assessment.ErrCodeExists, vErr.Err)
		assert.Equal(t, "code", vErr.Fields[0].Field)
	})

	t.Run("get by code", func(t *testing.T) {
		got, err := svc.GetByCode(ctx, " qz1")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)

		_, err = svc.GetByCode(ctx, "QZ2")
		assert.Equal(t, assessment.ErrNotFound, errors.Cause(err))
	})

	t.Run("code cannot change", func(t *testing.T) {
		ua := assessment.UpdateAssessment{Code: "QZ2", Title: "x", Type: "quiz", Difficulty: "beginner", Status: "draft"}
		err := ua.Validate(a, validate)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, assessment.ErrCodeImmutable, vErr.Err)
	})

	t.Run("full row update keeps code", func(t *testing.T) {
		ua := assessment.UpdateAssessment{
			Title:        "React Basics Quiz v2",
			Type:         "quiz",
			Duration:     90,
			Difficulty:   "intermediate",
			Status:       "draft",
			PassingScore: 80,
		}
		require.NoError(t, ua.Validate(a, validate))
		got, err := svc.Update(ctx, a, ua)
		require.NoError(t, err)
		assert.Equal(t, "QZ1", got.Code)
		assert.Equal(t, "1h 30m", got.FormattedDuration())
		assert.Equal(t, "", got.Category)
		assert.False(t, got.IsPublished())
	})
}
