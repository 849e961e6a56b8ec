package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
)

func tstamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateOrganization(
	t *testing.T,
	repo organization.Repository,
	name, status string,
	paths, codes []string,
	createdAt ...time.Time,
) organization.Organization {
	ts := tstamp(createdAt)
	if paths == nil {
		paths = []string{}
	}
	if codes == nil {
		codes = []string{}
	}
	org, err := repo.Create(context.Background(), organization.Organization{
		ID:                    uuid.New().String(),
		Name:                  name,
		Status:                status,
		AssignedLearningPaths: paths,
		AssignedAssessments:   codes,
		CreatedAt:             ts,
		UpdatedAt:             ts,
	})
	if err != nil {
		t.Fatalf("CreateOrganization() failed: %v", err)
	}
	return org
}

func CreateLearningPath(
	t *testing.T,
	repo learningpath.Repository,
	title string,
	modules int,
	status string,
	createdAt ...time.Time,
) learningpath.LearningPath {
	ts := tstamp(createdAt)
	lp, err := repo.Create(context.Background(), learningpath.LearningPath{
		ID:         uuid.New().String(),
		Title:      title,
		Difficulty: learningpath.DifficultyBeginner,
		Duration:   "4 weeks",
		Modules:    modules,
		Category:   "Web Development",
		Status:     status,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	})
	if err != nil {
		t.Fatalf("CreateLearningPath() failed: %v", err)
	}
	return lp
}

func CreateAssessment(
	t *testing.T,
	repo assessment.Repository,
	code, title, status string,
	createdAt ...time.Time,
) assessment.Assessment {
	ts := tstamp(createdAt)
	a, err := repo.Create(context.Background(), assessment.Assessment{
		ID:           uuid.New().String(),
		Code:         code,
		Title:        title,
		Type:         assessment.TypeQuiz,
		Duration:     30,
		Questions:    10,
		Difficulty:   assessment.DifficultyBeginner,
		Category:     "Web Development",
		Status:       status,
		PassingScore: 70,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		t.Fatalf("CreateAssessment() failed: %v", err)
	}
	return a
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, role, orgID, status string,
	createdAt ...time.Time,
) user.User {
	ts := tstamp(createdAt)
	usr, err := repo.Create(context.Background(), user.User{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		Role:           role,
		OrganizationID: null.NewString(orgID, orgID != ""),
		Status:         status,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
