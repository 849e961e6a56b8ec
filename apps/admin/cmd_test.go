package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/auth"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/storage/database"
	inmemdb "github.com/varadc-2304/admin-command-station/storage/database/inmem"
)

type loggerMock struct{}

func (loggerMock) Debug(string, ...interface{}) {}
func (loggerMock) Info(string, ...interface{})  {}
func (loggerMock) Warn(string, ...interface{})  {}
func (loggerMock) Error(string, ...interface{}) {}
func (loggerMock) Fatal(string, ...interface{}) {}

type fixture struct {
	cli   *commandLine
	repos repositories
	out   *bytes.Buffer
}

func setup(db *sql.DB) fixture {
	mem := inmemdb.Open()
	f := fixture{
		repos: repositories{
			orgs:        inmemdb.NewOrganizationRepository(mem),
			paths:       inmemdb.NewLearningPathRepository(mem),
			assessments: inmemdb.NewAssessmentRepository(mem),
			users:       inmemdb.NewUserRepository(mem),
		},
		out: new(bytes.Buffer),
	}
	f.cli = newCommandLine(core.NewTestConfig(), db, f.repos, loggerMock{}, f.out)
	return f
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkRunErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if errors.Cause(err).Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %s, wantErrStr %s", errors.Cause(err).Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_run(t *testing.T) {
	f := setup(nil)
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate without a database", args: []string{"migrate", "up"}, wantErr: errNoSQLDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, f.cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(new(sql.DB))

	origRun := database.GooseRunFunc
	defer func() { database.GooseRunFunc = origRun }()

	var ran []string
	database.GooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, strings.TrimSpace(dir+" "+command+" "+strings.Join(args, " ")))
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, f.cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
	assert.Contains(t, ran, "migrations up-to 2")
	assert.Contains(t, ran, "migrations create course sql")
}

func Test_commandLine_hashPassword(t *testing.T) {
	origRead := readPasswordFunc
	defer func() { readPasswordFunc = origRead }()

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no password", args: []string{"hashpassword"}, wantErr: errHelp},
		{name: "blank username", args: []string{"hashpassword", "-username", " "}, extra: extra{pwd: "s3cure-Pass"}, wantErr: errHelp},
		{name: "too short", args: []string{"hashpassword"}, extra: extra{pwd: "abc12"}, wantErr: auth.ErrPwdTooShort},
		{name: "numeric", args: []string{"hashpassword"}, extra: extra{pwd: "1234567890"}, wantErr: auth.ErrPwdNumeric},
		{name: "similar to username", args: []string{"hashpassword", "-username", "operator"}, extra: extra{pwd: "operator1"}, wantErr: auth.ErrPwdTooSim},
		{name: "default username", args: []string{"hashpassword"}, extra: extra{pwd: "s3cure-Pass"}},
		{name: "given username", args: []string{"hashpassword", "-username", "Root"}, extra: extra{pwd: "an0ther-Pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(nil)
			readPasswordFunc = func(fd int) ([]byte, error) {
				if extra, ok := tt.extra.(extra); ok {
					return []byte(extra.pwd), nil
				}
				return nil, nil
			}

			err := f.cli.run(append([]string{"admin"}, tt.args...))
			checkRunErr(t, tt, err)
			if err != nil {
				return
			}

			entries := make(map[string]string)
			for _, line := range strings.Split(f.out.String(), "\n") {
				if kv := strings.SplitN(line, "=", 2); len(kv) == 2 {
					entries[kv[0]] = kv[1]
				}
			}
			username, hash := entries["TEST_SUPERADMIN_USERNAME"], entries["TEST_SUPERADMIN_PASSWORDHASH"]
			require.NotEmpty(t, hash)

			gate, err := auth.NewGate(username, "", hash)
			require.NoError(t, err)
			assert.NoError(t, gate.Authenticate(username, tt.extra.(extra).pwd))
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	ctx := context.Background()
	f := setup(nil)

	require.NoError(t, f.cli.run([]string{"admin", "seed"}))
	assert.Contains(t, f.out.String(), "seeded 3 organizations, 3 learning paths, 3 assessments and 4 users")

	stats, err := f.cli.dashSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Organizations)
	assert.Equal(t, 2, stats.ActiveOrganizations)
	assert.Equal(t, 4, stats.Users)
	assert.Equal(t, 2, stats.Admins)
	assert.Equal(t, 45, stats.TotalModules)
	assert.Equal(t, 2, stats.PublishedAssessments)
	assert.Equal(t, 3, stats.LearningPathAssignees)
	assert.Equal(t, 2, stats.AssessmentAssignees)

	orgs, err := f.repos.orgs.Query(ctx, organization.QueryFilter{Search: "TechCorp"}, nil)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Len(t, orgs[0].AssignedLearningPaths, 2)
	assert.ElementsMatch(t, []string{"REACT-QUIZ", "JS-PROJECT"}, orgs[0].AssignedAssessments)

	t.Run("seeding twice is a no-op", func(t *testing.T) {
		f.out.Reset()
		require.NoError(t, f.cli.run([]string{"admin", "seed"}))
		assert.Contains(t, f.out.String(), "skipping seed")

		count, err := f.repos.orgs.Count(ctx, organization.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func Test_commandLine_prune(t *testing.T) {
	ctx := context.Background()
	f := setup(nil)
	require.NoError(t, f.cli.run([]string{"admin", "seed"}))

	paths, err := f.repos.paths.Query(ctx, learningpath.QueryFilter{Search: "React Fundamentals"}, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.NoError(t, f.repos.paths.Delete(ctx, paths[0].ID))

	quiz, err := f.repos.assessments.GetByCode(ctx, "REACT-QUIZ")
	require.NoError(t, err)
	require.NoError(t, f.repos.assessments.Delete(ctx, quiz.ID))

	f.out.Reset()
	require.NoError(t, f.cli.run([]string{"admin", "prune"}))
	assert.Equal(t, "pruned 2 learning path and 2 assessment reference(s) from 2 organization(s)\n", f.out.String())

	orgs, err := f.repos.orgs.Query(ctx, organization.QueryFilter{}, nil)
	require.NoError(t, err)
	for _, org := range orgs {
		assert.NotContains(t, org.AssignedLearningPaths, paths[0].ID)
		assert.NotContains(t, org.AssignedAssessments, "REACT-QUIZ")
	}

	f.out.Reset()
	require.NoError(t, f.cli.run([]string{"admin", "prune"}))
	assert.Equal(t, "pruned 0 learning path and 0 assessment reference(s) from 0 organization(s)\n", f.out.String())

	count, err := f.repos.assessments.Count(ctx, assessment.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_commandLine_stats(t *testing.T) {
	f := setup(nil)
	require.NoError(t, f.cli.run([]string{"admin", "seed"}))

	f.out.Reset()
	require.NoError(t, f.cli.run([]string{"admin", "stats"}))
	out := f.out.String()
	assert.Contains(t, out, "(2 active)")
	assert.Contains(t, out, "(3 active, 2 admins, 2 students)")
	assert.Contains(t, out, "(2 published, 45 modules, 3 organizations)")
	assert.Contains(t, out, "DataScience Pro")
}
