package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/modules/account"
	"github.com/dmitrymomot/apikit/pkg/auth"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/ratelimit"
	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
	"github.com/dmitrymomot/apikit/router"
)

type envelope struct {
	Status int            `json:"status"`
	Data   map[string]any `json:"data"`
	Errors []struct {
		Name  string `json:"name"`
		Field string `json:"field"`
		Type  string `json:"type"`
	} `json:"errors"`
}

type app struct {
	http.Handler
	storage *account.SQLiteStorage
}

func newApp(t *testing.T, cfg account.Config, opts ...account.Option) *app {
	t.Helper()
	ctx := context.Background()

	dbCfg := sqlite.Config{Path: sqlite.MemoryPath}
	db, err := sqlite.Open(ctx, dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, account.Migrate(ctx, db, dbCfg, logger.Discard()))

	sessions := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = sessions.Close() })

	authSvc := auth.NewService(sessions, auth.WithPasswordHasher(auth.BcryptHasher{Cost: bcrypt.MinCost}))
	storage := account.NewSQLiteStorage(db)
	svc := account.NewPasswordService(cfg, storage, authSvc, opts...)

	rt := router.New(router.WithErrorHandler(
		handler.NewErrorHandler(logger.Discard(), handler.WithClassifiers(sqlite.ClassifyError)),
	))
	for _, g := range svc.Routes("/auth") {
		rt.Group(g)
	}
	return &app{Handler: rt, storage: storage}
}

func (a *app) do(t *testing.T, method, path, body, token string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func register(t *testing.T, a *app, email string) string {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","name":"Ann","password":"Secret123"}`, "")
	require.Equal(t, http.StatusCreated, code)
	token, ok := env.Data["accessToken"].(string)
	require.True(t, ok)
	return token
}

func TestRegister(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	code, env := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"Ann@Example.com","name":"Ann","password":"Secret123"}`, "")

	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 201, env.Status)
	assert.Equal(t, "ann@example.com", env.Data["email"])
	assert.NotEmpty(t, env.Data["id"])
	assert.NotEmpty(t, env.Data["accessToken"])
	assert.NotContains(t, env.Data, "passwordHash")
	assert.NotContains(t, env.Data, "PasswordHash")

	stored, err := a.storage.GetUserByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	register(t, a, "dup@example.com")

	code, env := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"dup@example.com","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusConflict, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "email", env.Errors[0].Field)
	assert.Equal(t, "UNIQUE_VIOLATION", env.Errors[0].Type)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	code, env := a.do(t, http.MethodPost, "/auth/register", `{"email":"nope","password":"short"}`, "")

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	fields := map[string]bool{}
	for _, e := range env.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestRegister_PasswordTooLong(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	password := "Aa1" + strings.Repeat("x", 80)

	code, env := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"long@example.com","password":"`+password+`"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "password", env.Errors[0].Field)
	assert.Equal(t, "validation.max_bytes", env.Errors[0].Type)

	register(t, a, "short@example.com")
	code, env = a.do(t, http.MethodPost, "/auth/login",
		`{"email":"short@example.com","password":"`+password+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "invalid_credentials", env.Errors[0].Name)
}

func TestRegister_Disabled(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: false})
	code, env := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"Secret123"}`, "")

	assert.Equal(t, http.StatusNotFound, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "not_found", env.Errors[0].Name)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	register(t, a, "bob@example.com")

	code, env := a.do(t, http.MethodPost, "/auth/login", `{"email":"bob@example.com","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, env.Data["accessToken"])

	code, env = a.do(t, http.MethodPost, "/auth/login", `{"email":"bob@example.com","password":"Wrong1234"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "invalid_credentials", env.Errors[0].Name)

	code, env = a.do(t, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_credentials", env.Errors[0].Name)
}

func TestMe(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	token := register(t, a, "me@example.com")

	code, env := a.do(t, http.MethodGet, "/auth/me", "", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "me@example.com", env.Data["email"])

	code, env = a.do(t, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "required_token", env.Errors[0].Name)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	token := register(t, a, "out@example.com")

	code, env := a.do(t, http.MethodPost, "/auth/login", `{"email":"out@example.com","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, code)
	second := env.Data["accessToken"].(string)

	code, env = a.do(t, http.MethodPost, "/auth/logout", "", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env.Data["loggedOut"])

	code, env = a.do(t, http.MethodGet, "/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_token", env.Errors[0].Name)

	code, _ = a.do(t, http.MethodGet, "/auth/me", "", second)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogoutAll(t *testing.T) {
	t.Parallel()

	a := newApp(t, account.Config{RegistrationEnabled: true})
	token := register(t, a, "all@example.com")

	_, env := a.do(t, http.MethodPost, "/auth/login", `{"email":"all@example.com","password":"Secret123"}`, "")
	second := env.Data["accessToken"].(string)

	code, _ := a.do(t, http.MethodPost, "/auth/logout-all", "", token)
	require.Equal(t, http.StatusOK, code)

	for _, tok := range []string{token, second} {
		code, env := a.do(t, http.MethodGet, "/auth/me", "", tok)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid_token", env.Errors[0].Name)
	}
}

func TestNewPasswordService_NilStoragePanics(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore(0)
	defer sessions.Close()
	assert.Panics(t, func() {
		account.NewPasswordService(account.Config{}, nil, auth.NewService(sessions))
	})
}

func TestLogin_Throttled(t *testing.T) {
	t.Parallel()

	limits := ratelimit.NewMemoryStore(0)
	t.Cleanup(limits.Close)
	bucket, err := ratelimit.NewBucket(limits, ratelimit.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	a := newApp(t, account.Config{RegistrationEnabled: true},
		account.WithThrottle(ratelimit.Middleware(bucket, ratelimit.ByClientIP)))

	for range 2 {
		code, _ := a.do(t, http.MethodPost, "/auth/login", `{"email":"x@example.com","password":"Secret123"}`, "")
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := a.do(t, http.MethodPost, "/auth/login", `{"email":"x@example.com","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "too_many_requests", env.Errors[0].Name)
}
