package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/validator"
	"github.com/dmitrymomot/apikit/router"
)

func ok(ctx handler.Context, _ struct{}) error {
	return ctx.Success(map[string]string{"path": ctx.Request().URL.Path})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/users", router.JoinPath("", "/users"))
	assert.Equal(t, "/users", router.JoinPath("/", "/users"))
	assert.Equal(t, "/api/users", router.JoinPath("/api", "/users"))
	assert.Equal(t, "/apiusers", router.JoinPath("/api", "users"))
	assert.Equal(t, "/api/", router.JoinPath("/api/", ""))
}

func TestRouter_HandleAndGroup(t *testing.T) {
	t.Parallel()

	var trace []string
	tag := func(name string) handler.Middleware {
		return func(ctx handler.Context) error {
			trace = append(trace, name)
			return nil
		}
	}

	rt := router.New().Use(tag("global")).Prefix("/api")
	rt.Handle(router.Route[struct{}]{Method: router.MethodGet, Path: "/ping", Handler: ok})
	rt.Group(router.Group{
		Prefix:     "/admin",
		Middleware: []handler.Middleware{tag("group")},
		Routes: []router.Definition{
			router.Route[struct{}]{
				Method:     router.MethodGet,
				Path:       "/stats",
				Handler:    ok,
				Middleware: []handler.Middleware{tag("route")},
			},
		},
	})

	rec := serve(rt, http.MethodGet, "/api/ping")
	assert.Equal(t, http.StatusOK, rec.Code)

	trace = nil
	rec = serve(rt, http.MethodGet, "/api/admin/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"global", "group", "route"}, trace)

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/api/ping"},
		{Method: http.MethodGet, Path: "/api/admin/stats"},
	}, rt.Routes())
}

func TestRouter_PathParamsAndValidation(t *testing.T) {
	t.Parallel()

	type getItem struct {
		ID int `json:"id"`
	}
	schema := validator.Struct(func(g getItem) []validator.Rule {
		return []validator.Rule{validator.Min("id", g.ID, 1)}
	})

	rt := router.New()
	rt.Handle(router.Route[getItem]{
		Method:    router.MethodGet,
		Path:      "/items/{id}",
		Validator: handler.Validate(schema, handler.SourceParams),
		Handler: func(ctx handler.Context, req getItem) error {
			return ctx.Success(req)
		},
	})

	rec := serve(rt, http.MethodGet, "/items/42")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data getItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 42, body.Data.ID)

	rec = serve(rt, http.MethodGet, "/items/0")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	rt := router.New()
	rt.Handle(router.Route[struct{}]{Method: router.MethodPost, Path: "/things", Handler: ok})

	rec := serve(rt, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"not_found"`)

	rec = serve(rt, http.MethodGet, "/things")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"method_not_allowed"`)
}

func TestRouter_DisabledRoute(t *testing.T) {
	t.Parallel()

	rt := router.New()
	rt.Handle(router.Route[struct{}]{Method: router.MethodGet, Path: "/beta", Handler: ok, Disabled: true})

	rec := serve(rt, http.MethodGet, "/beta")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	rt := router.New(router.WithErrorHandler(func(ctx handler.Context, err error) {
		got = err
		ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
	}))
	rt.Handle(router.Route[struct{}]{
		Method: router.MethodDelete,
		Path:   "/x",
		Handler: func(ctx handler.Context, _ struct{}) error {
			return core.Gone("removed")
		},
	})

	rec := serve(rt, http.MethodDelete, "/x")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, core.ErrGone)
}

func TestRouter_RegistrationPanics(t *testing.T) {
	t.Parallel()

	t.Run("duplicate route", func(t *testing.T) {
		t.Parallel()
		rt := router.New()
		rt.Handle(router.Route[struct{}]{Method: router.MethodGet, Path: "/a", Handler: ok})
		assert.Panics(t, func() {
			rt.Handle(router.Route[struct{}]{Method: "GET", Path: "/a", Handler: ok})
		})
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			router.New().Handle(router.Route[struct{}]{Method: "options", Path: "/a", Handler: ok})
		})
	})

	t.Run("after serving", func(t *testing.T) {
		t.Parallel()
		rt := router.New()
		serve(rt, http.MethodGet, "/")
		assert.Panics(t, func() {
			rt.Handle(router.Route[struct{}]{Method: router.MethodGet, Path: "/late", Handler: ok})
		})
	})
}

func TestRouter_UseHTTP(t *testing.T) {
	t.Parallel()

	rt := router.New().UseHTTP(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "1")
			next.ServeHTTP(w, r)
		})
	})
	rt.Handle(router.Route[struct{}]{Method: router.MethodGet, Path: "/h", Handler: ok})

	rec := serve(rt, http.MethodGet, "/h")
	assert.Equal(t, "1", rec.Header().Get("X-Test"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}
