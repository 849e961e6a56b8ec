package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/dashboard"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
	"github.com/varadc-2304/admin-command-station/storage/database/inmem"
	"github.com/varadc-2304/admin-command-station/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	orgRepo := inmemdb.NewOrganizationRepository(db)
	userRepo := inmemdb.NewUserRepository(db)
	lpRepo := inmemdb.NewLearningPathRepository(db)
	aRepo := inmemdb.NewAssessmentRepository(db)
	registry := assignment.NewRegistry(orgRepo, lpRepo, aRepo, nil)
	svc := dashboard.NewService(orgRepo, userRepo, lpRepo, aRepo, registry)

	lp1 := testutil.CreateLearningPath(t, lpRepo, "Full Stack Web Development", 12, learningpath.StatusPublished)
	testutil.CreateLearningPath(t, lpRepo, "Data Science Fundamentals", 8, learningpath.StatusDraft)
	testutil.CreateAssessment(t, aRepo, "JS-101", "JavaScript Basics Quiz", assessment.StatusPublished)
	testutil.CreateAssessment(t, aRepo, "PY-201", "Python Project", assessment.StatusDraft)

	tech := testutil.CreateOrganization(t, orgRepo, "TechCorp Inc.", organization.StatusActive, []string{lp1.ID}, []string{"JS-101"})
	edu := testutil.CreateOrganization(t, orgRepo, "EduSoft Solutions", organization.StatusActive, []string{lp1.ID}, nil)
	testutil.CreateOrganization(t, orgRepo, "Learning Hub", organization.StatusInactive, nil, nil)

	testutil.CreateUser(t, userRepo, "John Doe", "john@techcorp.com", user.RoleAdmin, tech.ID, user.StatusActive)
	testutil.CreateUser(t, userRepo, "Jane Smith", "jane@techcorp.com", user.RoleStudent, tech.ID, user.StatusActive)
	testutil.CreateUser(t, userRepo, "Mike Johnson", "mike@edusoft.com", user.RoleStudent, edu.ID, user.StatusInactive)
	testutil.CreateUser(t, userRepo, "Lone Student", "lone@example.com", user.RoleStudent, "", user.StatusActive)

	t.Run("stats", func(t *testing.T) {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, dashboard.Stats{
			Organizations:          3,
			ActiveOrganizations:    2,
			Users:                  4,
			ActiveUsers:            3,
			Admins:                 1,
			Students:               3,
			LearningPaths:          2,
			PublishedLearningPaths: 1,
			TotalModules:           20,
			Assessments:            2,
			PublishedAssessments:   1,
			LearningPathAssignees:  2,
			AssessmentAssignees:    1,
		}, stats)
	})

	t.Run("organization summaries", func(t *testing.T) {
		summaries, err := svc.OrganizationSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 3)

		assert.Equal(t, "EduSoft Solutions", summaries[0].Name)
		assert.Equal(t, 1, summaries[0].Users)
		assert.Equal(t, 1, summaries[0].LearningPaths)
		assert.Equal(t, 0, summaries[0].Assessments)

		assert.Equal(t, "Learning Hub", summaries[1].Name)
		assert.Equal(t, 0, summaries[1].Users)

		assert.Equal(t, dashboard.OrganizationSummary{
			ID:            tech.ID,
			Name:          "TechCorp Inc.",
			Status:        organization.StatusActive,
			Users:         2,
			Admins:        1,
			Students:      1,
			LearningPaths: 1,
			Assessments:   1,
		}, summaries[2])
	})
}
