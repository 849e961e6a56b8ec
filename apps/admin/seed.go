package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
)

// demo fixture; assignments and users reference organizations by name
var (
	demoOrganizations = []organization.NewOrganization{
		{Name: "TechCorp Inc.", Description: "Leading technology company", Status: organization.StatusActive},
		{Name: "EduSoft Solutions", Description: "Educational software development", Status: organization.StatusActive},
		{Name: "DataScience Pro", Description: "Data analytics and AI training", Status: organization.StatusInactive},
	}

	demoLearningPaths = []struct {
		path learningpath.NewLearningPath
		orgs []string
	}{
		{
			path: learningpath.NewLearningPath{
				Title: "React Fundamentals", Description: "Master the basics of React development",
				Difficulty: learningpath.DifficultyBeginner, Duration: "8 weeks", Modules: 12,
				Category: "Web Development", Status: learningpath.StatusPublished,
			},
			orgs: []string{"TechCorp Inc.", "EduSoft Solutions"},
		},
		{
			path: learningpath.NewLearningPath{
				Title: "Advanced JavaScript", Description: "Deep dive into modern JavaScript concepts",
				Difficulty: learningpath.DifficultyAdvanced, Duration: "10 weeks", Modules: 15,
				Category: "Programming", Status: learningpath.StatusPublished,
			},
			orgs: []string{"TechCorp Inc."},
		},
		{
			path: learningpath.NewLearningPath{
				Title: "Data Science Basics", Description: "Introduction to data analysis and visualization",
				Difficulty: learningpath.DifficultyIntermediate, Duration: "12 weeks", Modules: 18,
				Category: "Data Science", Status: learningpath.StatusDraft,
			},
			orgs: []string{"DataScience Pro"},
		},
	}

	demoAssessments = []struct {
		assessment assessment.NewAssessment
		orgs       []string
	}{
		{
			assessment: assessment.NewAssessment{
				Code: "REACT-QUIZ", Title: "React Basics Quiz", Description: "Test your understanding of React fundamentals",
				Type: assessment.TypeQuiz, Duration: 30, Questions: 20, Difficulty: assessment.DifficultyBeginner,
				Category: "Web Development", Status: assessment.StatusPublished, PassingScore: 70,
			},
			orgs: []string{"TechCorp Inc.", "EduSoft Solutions"},
		},
		{
			assessment: assessment.NewAssessment{
				Code: "JS-PROJECT", Title: "JavaScript Advanced Project", Description: "Build a complex application using advanced JavaScript",
				Type: assessment.TypeProject, Duration: 480, Questions: 1, Difficulty: assessment.DifficultyAdvanced,
				Category: "Programming", Status: assessment.StatusPublished, PassingScore: 80,
			},
			orgs: []string{"TechCorp Inc."},
		},
		{
			assessment: assessment.NewAssessment{
				Code: "DATA-ASSIGN", Title: "Data Analysis Assignment", Description: "Analyze a dataset and present findings",
				Type: assessment.TypeAssignment, Duration: 120, Questions: 5, Difficulty: assessment.DifficultyIntermediate,
				Category: "Data Science", Status: assessment.StatusDraft, PassingScore: 75,
			},
		},
	}

	demoUsers = []struct {
		user user.NewUser
		org  string
	}{
		{user: user.NewUser{Name: "John Doe", Email: "john.doe@techcorp.com", Role: user.RoleAdmin, Status: user.StatusActive}, org: "TechCorp Inc."},
		{user: user.NewUser{Name: "Jane Smith", Email: "jane.smith@techcorp.com", Role: user.RoleStudent, Status: user.StatusActive}, org: "TechCorp Inc."},
		{user: user.NewUser{Name: "Mike Johnson", Email: "mike.j@edusoft.com", Role: user.RoleAdmin, Status: user.StatusActive}, org: "EduSoft Solutions"},
		{user: user.NewUser{Name: "Sarah Wilson", Email: "sarah.w@datascience.com", Role: user.RoleStudent, Status: user.StatusInactive}, org: "DataScience Pro"},
	}
)

// seed loads the demo fixture into an empty database.
func (cli *commandLine) seed(ctx context.Context) error {
	count, err := cli.orgSvc.Count(ctx, organization.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting organizations")
	}
	if count > 0 {
		fmt.Fprintln(cli.out, "organizations found: skipping seed")
		return nil
	}

	orgIDs := make(map[string]string, len(demoOrganizations)) // name -> id
	for _, no := range demoOrganizations {
		if err := no.Validate(cli.validate); err != nil {
			return errors.Wrapf(err, "validating organization %q", no.Name)
		}
		org, err := cli.orgSvc.Create(ctx, no)
		if err != nil {
			return errors.Wrapf(err, "creating organization %q", no.Name)
		}
		orgIDs[org.Name] = org.ID
	}
	idsOf := func(names []string) []string {
		ids := make([]string, 0, len(names))
		for _, name := range names {
			ids = append(ids, orgIDs[name])
		}
		return ids
	}

	for _, demo := range demoLearningPaths {
		nlp := demo.path
		if err := nlp.Validate(cli.validate); err != nil {
			return errors.Wrapf(err, "validating learning path %q", nlp.Title)
		}
		lp, err := cli.lpSvc.Create(ctx, nlp)
		if err != nil {
			return errors.Wrapf(err, "creating learning path %q", nlp.Title)
		}
		if len(demo.orgs) > 0 {
			if _, err := cli.registry.Assign(ctx, assignment.LearningPaths, lp.ID, idsOf(demo.orgs)); err != nil {
				return errors.Wrapf(err, "assigning learning path %q", lp.Title)
			}
		}
	}

	for _, demo := range demoAssessments {
		na := demo.assessment
		if err := na.Validate(cli.validate); err != nil {
			return errors.Wrapf(err, "validating assessment %q", na.Code)
		}
		a, err := cli.aSvc.Create(ctx, na)
		if err != nil {
			return errors.Wrapf(err, "creating assessment %q", na.Code)
		}
		if len(demo.orgs) > 0 {
			if _, err := cli.registry.Assign(ctx, assignment.Assessments, a.Code, idsOf(demo.orgs)); err != nil {
				return errors.Wrapf(err, "assigning assessment %q", a.Code)
			}
		}
	}

	for _, demo := range demoUsers {
		nu := demo.user
		nu.OrganizationID = null.StringFrom(orgIDs[demo.org])
		if err := nu.Validate(cli.validate); err != nil {
			return errors.Wrapf(err, "validating user %q", nu.Email)
		}
		if _, err := cli.userSvc.Create(ctx, nu); err != nil {
			return errors.Wrapf(err, "creating user %q", nu.Email)
		}
	}

	fmt.Fprintf(cli.out, "seeded %d organizations, %d learning paths, %d assessments and %d users\n",
		len(demoOrganizations), len(demoLearningPaths), len(demoAssessments), len(demoUsers))
	return nil
}
