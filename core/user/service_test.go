package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
	"github.com/varadc-2304/admin-command-station/storage/database/inmem"
	"github.com/varadc-2304/admin-command-station/tests"
)

type emailMock struct {
	sent []*core.EmailMessage
}

func (m *emailMock) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type fixture struct {
	svc      *user.Service
	repo     user.Repository
	orgs     organization.Repository
	email    *emailMock
	validate *validator.Validate
}

func setup() fixture {
	db := inmemdb.Open()
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	f := fixture{
		repo:     inmemdb.NewUserRepository(db),
		orgs:     inmemdb.NewOrganizationRepository(db),
		email:    new(emailMock),
		validate: validate,
	}
	f.svc = user.NewService(f.repo, organization.NewService(f.orgs, nil), f.email)
	return f
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("want a *core.ValidationError; got %v", err)
	}
	return vErr.Fields[0].Field
}

func TestNewUser_Validate(t *testing.T) {
	f := setup()

	tests := []struct {
		name      string
		data      user.NewUser
		wantErr   bool
		wantField string
	}{
		{name: "valid", data: user.NewUser{Name: "John Doe", Email: " John@TechCorp.com ", Role: "Admin"}},
		{name: "superadmin reserved", data: user.NewUser{Name: "Root", Email: "root@x.io", Role: "superadmin"}, wantErr: true, wantField: "role"},
		{name: "unknown role", data: user.NewUser{Name: "Jane", Email: "jane@x.io", Role: "teacher"}, wantErr: true},
		{name: "bad email", data: user.NewUser{Name: "Jane", Email: "jane", Role: "student"}, wantErr: true},
		{name: "missing name", data: user.NewUser{Name: " ", Email: "jane@x.io", Role: "student"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.data.Validate(f.validate)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "john@techcorp.com", tc.data.Email)
				assert.Equal(t, user.RoleAdmin, tc.data.Role)
				assert.Equal(t, user.StatusActive, tc.data.Status)
				return
			}
			require.Error(t, err)
			if tc.wantField != "" {
				assert.Equal(t, tc.wantField, fieldOf(t, err))
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := setup()
	org := testutil.CreateOrganization(t, f.orgs, "TechCorp Inc.", organization.StatusActive, nil, nil)

	nu := user.NewUser{Name: "John Doe", Email: "john@techcorp.com", Role: "admin", OrganizationID: null.StringFrom(org.ID)}
	require.NoError(t, nu.Validate(f.validate))
	usr, err := f.svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.Equal(t, org.ID, usr.OrganizationID.String)

	t.Run("welcome email", func(t *testing.T) {
		require.Len(t, f.email.sent, 1)
		msg := f.email.sent[0]
		assert.Equal(t, "john@techcorp.com", msg.To[0].Address)
		assert.Equal(t, "welcome", msg.TemplateName)
	})

	t.Run("email taken", func(t *testing.T) {
		dup := user.NewUser{Name: "Other", Email: "JOHN@techcorp.com", Role: "student"}
		require.NoError(t, dup.Validate(f.validate))
		_, err := f.svc.Create(ctx, dup)
		assert.Equal(t, "email", fieldOf(t, err))
	})

	t.Run("unknown organization", func(t *testing.T) {
		nu := user.NewUser{Name: "Jane", Email: "jane@x.io", Role: "student", OrganizationID: null.StringFrom("nope")}
		require.NoError(t, nu.Validate(f.validate))
		_, err := f.svc.Create(ctx, nu)
		assert.Equal(t, "organization_id", fieldOf(t, err))
	})

	t.Run("without organization", func(t *testing.T) {
		nu := user.NewUser{Name: "Mike Johnson", Email: "mike@x.io", Role: "student", OrganizationID: null.StringFrom("  ")}
		require.NoError(t, nu.Validate(f.validate))
		got, err := f.svc.Create(ctx, nu)
		require.NoError(t, err)
		assert.False(t, got.OrganizationID.Valid)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	f := setup()
	org := testutil.CreateOrganization(t, f.orgs, "TechCorp Inc.", organization.StatusActive, nil, nil)
	usr := testutil.CreateUser(t, f.repo, "Jane Smith", "jane@techcorp.com", user.RoleStudent, org.ID, user.StatusActive)
	testutil.CreateUser(t, f.repo, "Mike Johnson", "mike@edusoft.com", user.RoleStudent, "", user.StatusActive)

	t.Run("own email kept", func(t *testing.T) {
		uu := user.UpdateUser{Name: "Jane S.", Email: "jane@techcorp.com", Role: "admin", Status: "inactive"}
		require.NoError(t, uu.Validate(f.validate))
		got, err := f.svc.Update(ctx, usr.ID, uu)
		require.NoError(t, err)
		assert.Equal(t, "Jane S.", got.Name)
		assert.Equal(t, user.RoleAdmin, got.Role)
		assert.False(t, got.OrganizationID.Valid) // full row: detached
		assert.Equal(t, usr.CreatedAt, got.CreatedAt)
	})

	t.Run("email of another user", func(t *testing.T) {
		uu := user.UpdateUser{Name: "Jane", Email: "mike@edusoft.com", Role: "student", Status: "active"}
		require.NoError(t, uu.Validate(f.validate))
		_, err := f.svc.Update(ctx, usr.ID, uu)
		assert.Equal(t, "email", fieldOf(t, err))
	})

	t.Run("superadmin reserved", func(t *testing.T) {
		uu := user.UpdateUser{Name: "Jane", Email: "jane@techcorp.com", Role: "superadmin", Status: "active"}
		assert.Equal(t, "role", fieldOf(t, uu.Validate(f.validate)))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "nope", user.UpdateUser{})
		assert.True(t, core.IsNotFound(err))
	})
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	f := setup()
	tech := testutil.CreateOrganization(t, f.orgs, "TechCorp Inc.", organization.StatusActive, nil, nil)
	edu := testutil.CreateOrganization(t, f.orgs, "EduSoft Solutions", organization.StatusActive, nil, nil)
	testutil.CreateUser(t, f.repo, "John Doe", "john@techcorp.com", user.RoleAdmin, tech.ID, user.StatusActive)
	testutil.CreateUser(t, f.repo, "Jane Smith", "jane@techcorp.com", user.RoleStudent, tech.ID, user.StatusActive)
	testutil.CreateUser(t, f.repo, "Mike Johnson", "mike@edusoft.com", user.RoleStudent, edu.ID, user.StatusActive)
	testutil.CreateUser(t, f.repo, "Sarah Wilson", "sarah@edusoft.com", user.RoleAdmin, edu.ID, user.StatusInactive)

	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []string
	}{
		{name: "all sentinels", filter: user.QueryFilter{OrganizationID: "all", Role: "all", Status: "all"},
			want: []string{"Jane Smith", "John Doe", "Mike Johnson", "Sarah Wilson"}},
		{name: "by organization", filter: user.QueryFilter{OrganizationID: tech.ID}, want: []string{"Jane Smith", "John Doe"}},
		{name: "by role", filter: user.QueryFilter{Role: "ADMIN"}, want: []string{"John Doe", "Sarah Wilson"}},
		{name: "organization and role", filter: user.QueryFilter{OrganizationID: edu.ID, Role: "student"}, want: []string{"Mike Johnson"}},
		{name: "search email", filter: user.QueryFilter{Search: "EDUSOFT"}, want: []string{"Mike Johnson", "Sarah Wilson"}},
		{name: "inactive", filter: user.QueryFilter{Status: "inactive"}, want: []string{"Sarah Wilson"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.filter.Clean()
			users, err := f.svc.Query(ctx, tc.filter, nil)
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}
