package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/varadc-2304/admin-command-station/apps/api/echo"
	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/auth"
	"github.com/varadc-2304/admin-command-station/core/dashboard"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
	appfs "github.com/varadc-2304/admin-command-station/fs"
	emailsvc "github.com/varadc-2304/admin-command-station/services/email"
	"github.com/varadc-2304/admin-command-station/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type loggerMock struct{}

func (loggerMock) Debug(string, ...interface{}) {}
func (loggerMock) Info(string, ...interface{})  {}
func (loggerMock) Warn(string, ...interface{})  {}
func (loggerMock) Error(string, ...interface{}) {}
func (loggerMock) Fatal(string, ...interface{}) {}

type testApp struct {
	server   *Server
	conf     *core.Config
	token    string
	orgRepo  organization.Repository
	lpRepo   learningpath.Repository
	aRepo    assessment.Repository
	userRepo user.Repository
	mailSvc  *emailsvc.ConsoleService
}

func setup(t *testing.T) testApp {
	t.Helper()
	conf := core.NewTestConfig()

	db := inmemdb.Open()
	app := testApp{
		conf:     conf,
		orgRepo:  inmemdb.NewOrganizationRepository(db),
		lpRepo:   inmemdb.NewLearningPathRepository(db),
		aRepo:    inmemdb.NewAssessmentRepository(db),
		userRepo: inmemdb.NewUserRepository(db),
	}

	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	gate, err := auth.NewGate(conf.Superadmin.Username, conf.Superadmin.Password, conf.Superadmin.PasswordHash)
	if err != nil {
		t.Fatalf("auth.NewGate() failed: %v", err)
	}

	templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.FrontendBaseURL, true)
	app.mailSvc = emailsvc.NewConsoleServiceMock(conf, templates)

	registry := assignment.NewRegistry(app.orgRepo, app.lpRepo, app.aRepo, loggerMock{})
	orgSvc := organization.NewService(app.orgRepo, registry)

	app.server = NewServer(ServerDeps{
		Conf:            conf,
		Logger:          loggerMock{},
		Gate:            gate,
		OrgSvc:          orgSvc,
		LearningPathSvc: learningpath.NewService(app.lpRepo),
		AssessmentSvc:   assessment.NewService(app.aRepo),
		UserSvc:         user.NewService(app.userRepo, orgSvc, app.mailSvc),
		Registry:        registry,
		DashboardSvc:    dashboard.NewService(app.orgRepo, app.userRepo, app.lpRepo, app.aRepo, registry),
		Validate:        validate,
		Translator:      translator,
		DisableReqLogs:  true,
	})
	app.token = getToken(t, conf, conf.Superadmin.Username)
	return app
}

func (app testApp) do(req *http.Request, rec *httptest.ResponseRecorder) {
	app.server.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, username string, origIat ...int64) string {
	token, err := GenerateToken(conf, GetSuperadminClaims(conf, username, origIat...))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, data []byte, obj interface{}) {
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarchall() failed: %v; data %s", err, data)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newAuthRequest(tc.method, tc.path, tc.token, tc.body)
			app.do(req, rec)
			checkCodeAndData(t, tc, rec)
		})
	}
}
