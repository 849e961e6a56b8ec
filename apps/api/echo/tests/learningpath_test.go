package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/varadc-2304/admin-command-station/apps/api/echo"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	testutil "github.com/varadc-2304/admin-command-station/tests"
)

func Test_learningPathApi_query(t *testing.T) {
	app := setup(t)
	now := time.Now()
	web := testutil.CreateLearningPath(t, app.lpRepo, "Web Development Fundamentals", 12, learningpath.StatusPublished, now.Add(-time.Hour))
	data := testutil.CreateLearningPath(t, app.lpRepo, "Data Science Essentials", 8, learningpath.StatusDraft, now)
	tech := testutil.CreateOrganization(t, app.orgRepo, "TechCorp Inc.", organization.StatusActive, []string{web.ID}, nil)
	edu := testutil.CreateOrganization(t, app.orgRepo, "EduSoft Solutions", organization.StatusActive, []string{web.ID}, nil)

	webView := LearningPathView{LearningPath: web, AssignedOrganizations: []string{edu.ID, tech.ID}}
	dataView := LearningPathView{LearningPath: data, AssignedOrganizations: []string{}}

	path := "/v1/learning-paths"
	runTests(t, app, []httpTest{
		{name: "no token", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "all by title",
			method:   http.MethodGet,
			path:     path,
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []LearningPathView{dataView, webView}),
		},
		{
			name:     "published",
			method:   http.MethodGet,
			path:     path + "?status=published&difficulty=all",
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []LearningPathView{webView}),
		},
		{
			name:     "search",
			method:   http.MethodGet,
			path:     path + "?search=science",
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []LearningPathView{dataView}),
		},
	})
}

func Test_learningPathApi_crud(t *testing.T) {
	app := setup(t)
	path := "/v1/learning-paths"

	runTests(t, app, []httpTest{
		{
			name:     "missing title",
			method:   http.MethodPost,
			path:     path,
			body:     marchallObj(t, learningpath.NewLearningPath{Difficulty: "beginner"}),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
		{
			name:     "bad difficulty",
			method:   http.MethodPost,
			path:     path,
			body:     marchallObj(t, learningpath.NewLearningPath{Title: "Go", Difficulty: "expert"}),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"difficulty": "difficulty must be one of [beginner intermediate advanced]"}),
		},
		{
			name:     "retrieve unknown",
			method:   http.MethodGet,
			path:     path + "/nope",
			token:    app.token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "learning path not found"}),
		},
	})

	var created learningpath.LearningPath
	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, learningpath.NewLearningPath{
			Title:      " Mobile App Development ",
			Difficulty: "Advanced",
			Duration:   "10 weeks",
			Modules:    15,
			Category:   "Mobile Development",
		})
		req, rec := newAuthRequest(http.MethodPost, path, app.token, body)
		app.do(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		unmarchall(t, rec.Body.Bytes(), &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Mobile App Development", created.Title)
		assert.Equal(t, learningpath.DifficultyAdvanced, created.Difficulty)
		assert.Equal(t, learningpath.StatusDraft, created.Status)
		assert.Equal(t, 15, created.Modules)
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, learningpath.UpdateLearningPath{
			Title:      "Mobile App Development",
			Difficulty: "intermediate",
			Duration:   "12 weeks",
			Modules:    18,
			Status:     "published",
		})
		req, rec := newAuthRequest(http.MethodPut, path+"/"+created.ID, app.token, body)
		app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got learningpath.LearningPath
		unmarchall(t, rec.Body.Bytes(), &got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, learningpath.StatusPublished, got.Status)
		assert.Equal(t, 18, got.Modules)
		assert.Equal(t, "", got.Category) // full row overwrite
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path+"/"+created.ID, app.token)
		app.do(req, rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := app.lpRepo.Get(context.Background(), created.ID)
		assert.Equal(t, learningpath.ErrNotFound, err)
	})
}

func Test_learningPathApi_assign(t *testing.T) {
	app := setup(t)
	web := testutil.CreateLearningPath(t, app.lpRepo, "Web Development Fundamentals", 12, learningpath.StatusPublished)
	tech := testutil.CreateOrganization(t, app.orgRepo, "TechCorp Inc.", organization.StatusActive, nil, nil)
	edu := testutil.CreateOrganization(t, app.orgRepo, "EduSoft Solutions", organization.StatusActive, nil, nil)
	path := "/v1/learning-paths/" + web.ID

	runTests(t, app, []httpTest{
		{
			name:     "empty selection",
			method:   http.MethodPost,
			path:     path + "/assign",
			body:     marchallObj(t, AssignRequest{OrganizationIDs: []string{" "}}),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"organization_ids": "select at least one organization"}),
		},
		{
			name:     "unknown organization",
			method:   http.MethodPost,
			path:     path + "/assign",
			body:     marchallObj(t, AssignRequest{OrganizationIDs: []string{tech.ID, "nope"}}),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"organization_ids": "unknown organization(s): nope"}),
		},
		{
			name:     "unknown learning path",
			method:   http.MethodPost,
			path:     "/v1/learning-paths/nope/assign",
			body:     marchallObj(t, AssignRequest{OrganizationIDs: []string{tech.ID}}),
			token:    app.token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "assigned item not found"}),
		},
		{
			name:     "no assignees yet",
			method:   http.MethodGet,
			path:     path + "/organizations",
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
		{
			name:     "assign to two organizations",
			method:   http.MethodPost,
			path:     path + "/assign",
			body:     marchallObj(t, AssignRequest{OrganizationIDs: []string{tech.ID, edu.ID, tech.ID}}),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, AssignResponse{Assigned: true, Count: 2, Notice: "Learning path assigned to 2 organization(s)."}),
		},
		{
			name:     "assign again",
			method:   http.MethodPost,
			path:     path + "/assign",
			body:     marchallObj(t, AssignRequest{OrganizationIDs: []string{tech.ID}}),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, AssignResponse{Assigned: true, Notice: "Learning path assigned to 0 organization(s)."}),
		},
		{
			name:     "assignees by name",
			method:   http.MethodGet,
			path:     path + "/organizations",
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []assignment.Assignee{{ID: edu.ID, Name: edu.Name}, {ID: tech.ID, Name: tech.Name}}),
		},
		{
			name:     "assignees of unknown path",
			method:   http.MethodGet,
			path:     "/v1/learning-paths/nope/organizations",
			token:    app.token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "learning path not found"}),
		},
	})

	stored, err := app.orgRepo.Get(context.Background(), tech.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{web.ID}, stored.AssignedLearningPaths)
}
