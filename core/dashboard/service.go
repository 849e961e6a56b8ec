// Package dashboard computes the aggregate counts shown on the console overview.
package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
)

type (
	Stats struct {
		Organizations          int `json:"organizations"`
		ActiveOrganizations    int `json:"active_organizations"`
		Users                  int `json:"users"`
		ActiveUsers            int `json:"active_users"`
		Admins                 int `json:"admins"`
		Students               int `json:"students"`
		LearningPaths          int `json:"learning_paths"`
		PublishedLearningPaths int `json:"published_learning_paths"`
		TotalModules           int `json:"total_modules"`
		Assessments            int `json:"assessments"`
		PublishedAssessments   int `json:"published_assessments"`
		// distinct organizations holding at least one item
		LearningPathAssignees int `json:"learning_path_assignees"`
		AssessmentAssignees   int `json:"assessment_assignees"`
	}

	OrganizationSummary struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Status        string `json:"status"`
		Users         int    `json:"users"`
		Admins        int    `json:"admins"`
		Students      int    `json:"students"`
		LearningPaths int    `json:"learning_paths"`
		Assessments   int    `json:"assessments"`
	}

	// AssigneeCounter counts the organizations holding at least one item of a kind.
	AssigneeCounter interface {
		CountAllAssignees(ctx context.Context, kind assignment.Kind) (int, error)
	}

	Service struct {
		orgs        organization.Repository
		users       user.Repository
		paths       learningpath.Repository
		assessments assessment.Repository
		assignees   AssigneeCounter
	}
)

func NewService(
	orgs organization.Repository,
	users user.Repository,
	paths learningpath.Repository,
	assessments assessment.Repository,
	assignees AssigneeCounter,
) *Service {
	return &Service{orgs: orgs, users: users, paths: paths, assessments: assessments, assignees: assignees}
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.Organizations, err = svc.orgs.Count(ctx, organization.QueryFilter{}); err != nil {
		return Stats{}, errors.Wrap(err, "counting organizations")
	}
	if stats.ActiveOrganizations, err = svc.orgs.Count(ctx, organization.QueryFilter{Status: organization.StatusActive}); err != nil {
		return Stats{}, errors.Wrap(err, "counting active organizations")
	}

	users, err := svc.users.Query(ctx, user.QueryFilter{}, nil)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying users")
	}
	stats.Users = len(users)
	for i := range users {
		if users[i].IsActive() {
			stats.ActiveUsers++
		}
		switch {
		case users[i].IsAdmin():
			stats.Admins++
		case users[i].IsStudent():
			stats.Students++
		}
	}

	paths, err := svc.paths.Query(ctx, learningpath.QueryFilter{}, nil)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying learning paths")
	}
	stats.LearningPaths = len(paths)
	for i := range paths {
		stats.TotalModules += paths[i].Modules
		if paths[i].IsPublished() {
			stats.PublishedLearningPaths++
		}
	}

	if stats.Assessments, err = svc.assessments.Count(ctx, assessment.QueryFilter{}); err != nil {
		return Stats{}, errors.Wrap(err, "counting assessments")
	}
	if stats.PublishedAssessments, err = svc.assessments.Count(ctx, assessment.QueryFilter{Status: assessment.StatusPublished}); err != nil {
		return Stats{}, errors.Wrap(err, "counting published assessments")
	}

	if stats.LearningPathAssignees, err = svc.assignees.CountAllAssignees(ctx, assignment.LearningPaths); err != nil {
		return Stats{}, errors.Wrap(err, "counting learning path assignees")
	}
	if stats.AssessmentAssignees, err = svc.assignees.CountAllAssignees(ctx, assignment.Assessments); err != nil {
		return Stats{}, errors.Wrap(err, "counting assessment assignees")
	}
	return stats, nil
}

// OrganizationSummaries returns the user and assignment counts of every organization, by name.
func (svc *Service) OrganizationSummaries(ctx context.Context) ([]OrganizationSummary, error) {
	orgs, err := svc.orgs.Query(ctx, organization.QueryFilter{}, []core.DBOrdering{{Field: "name", Ascending: true}})
	if err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}
	users, err := svc.users.Query(ctx, user.QueryFilter{}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	byOrg := make(map[string][]user.User)
	for _, usr := range users {
		if usr.OrganizationID.Valid {
			byOrg[usr.OrganizationID.String] = append(byOrg[usr.OrganizationID.String], usr)
		}
	}

	summaries := make([]OrganizationSummary, 0, len(orgs))
	for _, org := range orgs {
		summary := OrganizationSummary{
			ID:            org.ID,
			Name:          org.Name,
			Status:        org.Status,
			Users:         len(byOrg[org.ID]),
			LearningPaths: len(org.AssignedLearningPaths),
			Assessments:   len(org.AssignedAssessments),
		}
		for i := range byOrg[org.ID] {
			switch {
			case byOrg[org.ID][i].IsAdmin():
				summary.Admins++
			case byOrg[org.ID][i].IsStudent():
				summary.Students++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
