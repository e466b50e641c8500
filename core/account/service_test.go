package account_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/profile"
	emailsvc "github.com/SandyWyper/Know-How/services/email"
	dummydb "github.com/SandyWyper/Know-How/storage/database/dummy"
	testutil "github.com/SandyWyper/Know-How/tests"
)

const pwd = "Str0ng&Unique"

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// validationCause returns the error a core.ValidationError carries, or err itself.
func validationCause(err error) error {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return verr.Err
	}
	return err
}

type testEnv struct {
	svc      account.ServiceInterface
	validate *validator.Validate
	repo     account.Repository
	profRepo profile.Repository
	mailSvc  *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) testEnv {
	t.Helper()
	conf := core.NewTestConfig()
	db := dummydb.Open()
	validate, _ := testutil.NewValidator()
	account.LoadCommonPasswords(nopLogger{})

	env := testEnv{
		validate: validate,
		repo:     dummydb.NewAccountRepository(db),
		profRepo: dummydb.NewProfileRepository(db),
		mailSvc:  emailsvc.NewConsoleServiceMock(conf, nopLogger{}),
	}
	env.svc = account.NewServiceMock(
		dummydb.NewTransactor(), env.repo, profile.NewService(env.profRepo), env.mailSvc, conf)
	return env
}

func TestService_ValidateNew(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	testutil.CreateAccount(t, env.repo, env.profRepo, "taken", "taken@test.com", pwd, nil, true)

	newAcc := func(uname, email, password string) account.NewAccount {
		return account.NewAccount{Username: uname, Email: email, Password: password, PasswordConfirm: password}
	}

	tests := []struct {
		name    string
		na      account.NewAccount
		wantTag string
	}{
		{name: "too short", na: newAcc("tutor", "tutor@test.com", "Sh0rt!"), wantTag: "pwdminlen"},
		{name: "whitespace", na: newAcc("tutor", "tutor@test.com", "Has Space 1!"), wantTag: "pwdnospace"},
		{name: "all numeric", na: newAcc("tutor", "tutor@test.com", "12345678"), wantTag: "pwdnotallnum"},
		{name: "not complex", na: newAcc("tutor", "tutor@test.com", "password"), wantTag: "pwdcplx"},
		{name: "similar to email", na: newAcc("tutor", "tutor@test.com", "Tutor@test.com1"), wantTag: "pwdtoosim"},
		{name: "common", na: newAcc("tutor", "tutor@test.com", "P@ssw0rd"), wantTag: "pwdnocommon"},
		{name: "bad username", na: newAcc("tu tor", "tutor@test.com", pwd), wantTag: "alphanum_"},
		{name: "bad roles", na: account.NewAccount{
			Username: "tutor", Password: pwd, PasswordConfirm: pwd, Roles: []string{"king"},
		}, wantTag: "allroles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.ValidateNew(ctx, env.validate, &tt.na)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "ValidateNew() error = %v", err)
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
		})
	}

	t.Run("username taken", func(t *testing.T) {
		na := newAcc(" TAKEN ", "new@test.com", pwd)
		err := env.svc.ValidateNew(ctx, env.validate, &na)
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []core.FieldError{{Field: "username", Error: account.ErrUsernameExists.Error()}}, verr.Fields)
	})

	t.Run("email taken", func(t *testing.T) {
		na := newAcc("fresh", "Taken@Test.com", pwd)
		err := env.svc.ValidateNew(ctx, env.validate, &na)
		assert.Equal(t, account.ErrEmailExists, validationCause(err))
	})

	t.Run("valid", func(t *testing.T) {
		na := newAcc(" Fresh ", "", pwd)
		require.NoError(t, env.svc.ValidateNew(ctx, env.validate, &na))
		assert.Equal(t, "fresh", na.Username)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	acc, err := env.svc.Create(ctx, account.NewAccount{
		Username:  "tutor",
		Email:     "tutor@test.com",
		FirstName: "Ada",
		Password:  pwd,
		Roles:     []string{account.RoleStaff},
	})
	require.NoError(t, err)
	assert.True(t, acc.IsActive)
	assert.True(t, acc.IsStaff())
	assert.False(t, acc.IsSuperuser())
	assert.NoError(t, acc.CheckPassword(pwd))
	assert.Equal(t, "Ada", acc.FullName())

	p, err := env.profRepo.GetProfileByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, p.AllowReviews)

	got, err := env.svc.GetByUsernameOrEmail(ctx, " TUTOR@test.com ")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	byIDs, err := env.svc.GetByIDs(ctx, acc.ID, "unknown")
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
	assert.Equal(t, "tutor", byIDs[acc.ID].Username)
}

func TestService_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	testutil.CreateAccount(t, env.repo, env.profRepo, "other", "other@test.com", pwd, nil, true)
	acc := testutil.CreateAccount(t, env.repo, env.profRepo, "tutor", "tutor@test.com", pwd, nil, true)

	_, err := env.svc.UpdateDetails(ctx, acc, account.UpdateDetails{Email: "other@test.com"})
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields[0].Field)

	got, err := env.svc.UpdateDetails(ctx, acc, account.UpdateDetails{FirstName: "Ada", LastName: "Lovelace", Email: "tutor@test.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName())
	assert.Equal(t, "tutor", got.Username)
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	acc := testutil.CreateAccount(t, env.repo, env.profRepo, "tutor", "tutor@test.com", pwd, nil, true)
	testutil.CreateAccount(t, env.repo, env.profRepo, "gone", "gone@test.com", pwd, nil, false)

	assert.Equal(t, account.ErrNotFound, errors.Cause(env.svc.RequestPasswordReset(ctx, "nobody@test.com")))
	assert.Equal(t, account.ErrNotFound, errors.Cause(env.svc.RequestPasswordReset(ctx, "gone@test.com")))
	assert.Empty(t, env.mailSvc.SentMessages())

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "tutor@test.com"))
	sent := env.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "tutor@test.com", sent[0].To[0].Address)
	data := sent[0].TemplateData.(map[string]string)
	assert.Equal(t, account.EncodeUID(acc), data["UID"])

	newPwd := "N3w&Different"
	reset := account.ResetPassword{UID: data["UID"], Token: data["Token"], Password: newPwd, PasswordConfirm: newPwd}

	bad := reset
	bad.Token = "nope"
	assert.Equal(t, account.ErrInvalidReset, validationCause(env.svc.ResetPassword(ctx, bad)))
	bad = reset
	bad.UID = "%%%"
	assert.Equal(t, account.ErrInvalidReset, validationCause(env.svc.ResetPassword(ctx, bad)))

	require.NoError(t, env.svc.ResetPassword(ctx, reset))
	got, err := env.svc.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword(newPwd))

	// tokens are single use
	assert.Equal(t, account.ErrInvalidReset, validationCause(env.svc.ResetPassword(ctx, reset)))
}
