package tests

import (
	"context"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/SandyWyper/Know-How/apps/api/echo"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/tests"
)

func Test_accountApi_register(t *testing.T) {
	app := setup(t)
	app.createAccount(t, "taken")

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte("{}"),
			wantData: marchallObj(t, map[string]string{"username": reqMsg, "password": reqMsg, "password_confirm": reqMsg}),
		},
		{
			name: "invalid username", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.NewAccount{Username: "no way", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, map[string]string{"username": "only alphanumeric characters and underscores are allowed"}),
		},
		{
			name: "username taken", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.NewAccount{Username: "TAKEN", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, map[string]string{"username": "an account with this username already exists"}),
		},
		{
			name: "email taken", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.NewAccount{Username: "newbie", Email: "taken@test.com", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, map[string]string{"email": "an account with this email already exists"}),
		},
		{
			name: "too common", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.NewAccount{Username: "newbie", Password: "P@ssw0rd", PasswordConfirm: "P@ssw0rd"}),
			wantData: marchallObj(t, map[string]string{"password": "password is too common"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/accounts/register", "", tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created with a profile", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/accounts/register", "", marchallObj(t, map[string]interface{}{
			"username":         "Newbie",
			"email":            "newbie@test.com",
			"password":         "LolC@t123",
			"password_confirm": "LolC@t123",
			"roles":            []string{account.RoleSuperuser},
		}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var acc account.Account
		unmarshal(t, rec, &acc)
		assert.Equal(t, "newbie", acc.Username)
		assert.True(t, acc.IsActive)
		assert.Empty(t, acc.Roles)

		prof, err := app.profRepo.GetProfileByAccount(context.Background(), acc.ID)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, prof.AccountID)
		assert.True(t, prof.AllowReviews)
	})
}

func Test_accountApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateAccount(t, app.accRepo, app.profRepo, "hero", "hero@test.com", "LolC@t123", nil, true)
	testutil.CreateAccount(t, app.accRepo, app.profRepo, "ndog", "ndog@test.com", "LolC@t123", nil, false)

	failed := marchallObj(t, httpErr{Error: "authentication failed"})
	tests := []httpTest{
		{name: "unknown account", body: marchallObj(t, echoapi.LoginRequest{Username: "lol", Password: "LolC@t123"}), wantCode: http.StatusBadRequest, wantData: failed},
		{name: "wrong password", body: marchallObj(t, echoapi.LoginRequest{Username: "hero", Password: "lol"}), wantCode: http.StatusBadRequest, wantData: failed},
		{
			name: "inactive account", body: marchallObj(t, echoapi.LoginRequest{Username: "ndog", Password: "LolC@t123"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "by username", body: marchallObj(t, echoapi.LoginRequest{Username: "HERO", Password: "LolC@t123"}), wantCode: http.StatusOK},
		{name: "by email", body: marchallObj(t, echoapi.LoginRequest{Username: "hero@test.com", Password: "LolC@t123"}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/accounts/login", "", tt.body)
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
				var respData echoapi.LoginResponse
				unmarshal(t, rec, &respData)
				assert.NotEmpty(t, respData.Token)

				me := app.do(http.MethodGet, "/accounts/me", respData.Token, nil)
				require.Equal(t, http.StatusOK, me.Code)
				var acc account.Account
				unmarshal(t, me, &acc)
				assert.Equal(t, "hero", acc.Username)
				assert.False(t, acc.LastLogin.IsZero())
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountApi_refreshToken(t *testing.T) {
	app := setup(t)

	naughty := testutil.CreateAccount(t, app.accRepo, app.profRepo, "ndog", "ndog@test.com", "", nil, false) // 😂
	hero := app.createAccount(t, "hero")

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    app.conf.AppName,
			Subject:   hero.ID,
			ExpiresAt: now.Add(app.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * app.conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		Username:     hero.Username,
	}
	unrefreshableToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, unrefreshableClaims).SignedString([]byte(app.conf.SecretKey))
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Inactive account not allowed", token: app.token(t, naughty), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "Token refreshed", token: app.token(t, hero), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/accounts/token-refresh", tt.token, nil)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code)
				var respData echoapi.LoginResponse
				unmarshal(t, rec, &respData)
				assert.NotEmpty(t, respData.Token)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountApi_passwordReset(t *testing.T) {
	app := setup(t)
	hero := app.createAccount(t, "hero")

	successData := marchallObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: marchallObj(t, echoapi.PasswordResetRequest{Email: "this field is required"})},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, echoapi.PasswordResetRequest{Email: "email must be a valid email address"}),
		},
		{
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.com"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: hero.Email}),
			wantData: successData, extra: extraTest{emailSent: true, to: mail.Address{Name: hero.FullName(), Address: hero.Email}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.mailSvc.Reset()

			rec := app.do(http.MethodPost, "/accounts/password-reset", "", tt.body)
			checkCodeAndData(t, tt, rec)

			extra, ok := tt.extra.(extraTest)
			if !ok {
				return
			}
			sent := app.mailSvc.SentMessages()
			if !extra.emailSent {
				assert.Empty(t, sent)
				return
			}
			require.Len(t, sent, 1)
			assert.Equal(t, extra.to, sent[0].To[0])
			assert.Contains(t, sent[0].TextContent, extra.to.Name)
			assert.Regexp(t, "/password-reset/.+/.+", sent[0].TextContent)
		})
	}
}

func Test_accountApi_confirmPasswordReset(t *testing.T) {
	app := setup(t)
	hero := testutil.CreateAccount(t, app.accRepo, app.profRepo, "hero", "hero@test.com", "OldC@t123", nil, true)

	// the link comes from the reset email
	rec := app.do(http.MethodPost, "/accounts/password-reset", "", marchallObj(t, echoapi.PasswordResetRequest{Email: hero.Email}))
	require.Equal(t, http.StatusOK, rec.Code)
	sent := app.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	link := regexp.MustCompile(`/password-reset/([^/\s]+)/(\S+)`).FindStringSubmatch(sent[0].TextContent)
	require.Len(t, link, 3)
	validUID, validToken := link[1], strings.TrimSpace(link[2])

	reqMsg := "this field is required"
	invalid := "invalid password reset link"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte("{}"),
			wantData: marchallObj(t, account.ResetPassword{Token: reqMsg, UID: reqMsg, Password: reqMsg, PasswordConfirm: reqMsg}),
		},
		{
			name: "invalid pwd: min len", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.ResetPassword{Token: "lol", UID: "lol", Password: "lol", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, account.ResetPassword{Password: "password must contain at least 8 characters"}),
		},
		{
			name: "invalid pwd: complexity", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.ResetPassword{Token: "lol", UID: "lol", Password: "lol12345", PasswordConfirm: "lol12345"}),
			wantData: marchallObj(t, account.ResetPassword{Password: "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"}),
		},
		{
			name: "PasswordConfirm must = Password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.ResetPassword{Token: "lol", UID: "lol", Password: "LolC@t123", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, account.ResetPassword{PasswordConfirm: "password_confirm must be equal to Password"}),
		},
		{
			name: "invalid uid", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.ResetPassword{Token: validToken, UID: "bG9s", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: invalid}),
		},
		{
			name: "invalid token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, account.ResetPassword{Token: "HE4TS-sigsig-sig", UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: invalid}),
		},
		{
			name: "valid token", wantCode: http.StatusOK,
			body:     marchallObj(t, account.ResetPassword{Token: validToken, UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/accounts/password-reset-confirm", "", tt.body)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshed, err := app.accRepo.GetAccount(context.Background(), account.GetFilter{ID: hero.ID})
				require.NoError(t, err)
				assert.NoError(t, refreshed.CheckPassword("LolC@t123"))
			}
		})
	}
}

func Test_accountApi_tokens(t *testing.T) {
	app := setup(t)
	hero := app.createAccount(t, "hero")
	token := app.token(t, hero)

	t.Run("garbage token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/", "lol", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("token of a deleted account", func(t *testing.T) {
		ghost := account.Account{ID: "00000000-0000-0000-0000-000000000000", Username: "ghost"}
		rec := app.do(http.MethodGet, "/", app.token(t, ghost), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("anonymous on a public page", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("me", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/accounts/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var acc account.Account
		unmarshal(t, rec, &acc)
		assert.Equal(t, hero.ID, acc.ID)
	})
}
