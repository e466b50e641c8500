package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/SandyWyper/Know-How/apps/api/echo"
	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
	"github.com/SandyWyper/Know-How/services/email"
	"github.com/SandyWyper/Know-How/services/logger"
	"github.com/SandyWyper/Know-How/storage/database/dummy"
	"github.com/SandyWyper/Know-How/tests"
)

var errMissingToken = httpErr{Error: "account not authenticated"}

// testApp is a server backed by in-memory repositories.
type testApp struct {
	*echoapi.Server
	conf        *core.Config
	mailSvc     *emailsvc.ConsoleServiceMock
	accRepo     account.Repository
	profRepo    profile.Repository
	listingRepo listing.Repository
	reviewRepo  review.Repository
	contentRepo content.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(io.Discard, conf)
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(conf, logger)
	account.LoadCommonPasswords(logger)

	// set up DB & repos
	db := dummydb.Open()
	app := &testApp{
		conf:        conf,
		mailSvc:     emailsvc.NewConsoleServiceMock(conf, logger),
		accRepo:     dummydb.NewAccountRepository(db),
		profRepo:    dummydb.NewProfileRepository(db),
		listingRepo: dummydb.NewListingRepository(db),
		reviewRepo:  dummydb.NewReviewRepository(db),
		contentRepo: dummydb.NewContentRepository(db),
	}

	// set up services
	profSvc := profile.NewService(app.profRepo)
	app.Server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: account.NewServiceMock(dummydb.NewTransactor(), app.accRepo, profSvc, app.mailSvc, conf),
		ProfileSvc: profSvc,
		ListingSvc: listing.NewService(app.listingRepo, conf),
		ReviewSvc:  review.NewService(app.reviewRepo, validate),
		ContentSvc: content.NewService(dummydb.NewTransactor(), app.contentRepo),
		Validate:   validate,
		Translator: translator,
	})
	return app
}

// createAccount stores an active account, with its profile.
func (app *testApp) createAccount(t *testing.T, uname string, roles ...string) account.Account {
	return testutil.CreateAccount(t, app.accRepo, app.profRepo, uname, uname+"@test.com", "", roles, true)
}

func (app *testApp) token(t *testing.T, acc account.Account) string {
	token, err := echoapi.NewToken(app.conf, acc)
	require.NoError(t, err, "NewToken()")
	return token
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
	extra    interface{}
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

// do serves one request; cookies from a previous response are replayed.
func (app *testApp) do(method, path, token string, body []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "json.Unmarshal()")
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
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

type message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// followRedirect checks rec is a 303 to path, then fetches path with the notices cookie.
func (app *testApp) followRedirect(t *testing.T, rec *httptest.ResponseRecorder, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, path, rec.Header().Get("Location"))
	return app.do(http.MethodGet, path, token, nil, rec.Result().Cookies()...)
}

func readMessages(t *testing.T, rec *httptest.ResponseRecorder) []message {
	var data struct {
		Messages []message `json:"messages"`
	}
	unmarshal(t, rec, &data)
	return data.Messages
}
