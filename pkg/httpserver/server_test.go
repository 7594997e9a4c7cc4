package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/httpserver"
)

func startServer(t *testing.T, ctx context.Context, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()

	addrCh := make(chan string, 1)
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(200 * time.Millisecond),
		httpserver.OnStart(func(_ context.Context, addr string) { addrCh <- addr }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()

	select {
	case addr := <-addrCh:
		return srv, addr, done
	case err := <-done:
		require.FailNow(t, "server did not start", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start")
	}
	return nil, "", nil
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not return")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stopped atomic.Bool
	_, addr, done := startServer(t, ctx, httpserver.OnStop(func(context.Context) { stopped.Store(true) }))

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	waitDone(t, done)
	assert.True(t, stopped.Load())
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	srv, _, done := startServer(t, context.Background())

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestRun_AlreadyRunning(t *testing.T) {
	t.Parallel()

	srv, _, done := startServer(t, context.Background())

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)
	assert.ErrorIs(t, err, httpserver.ErrStart)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	err := httpserver.New(httpserver.WithAddr("256.0.0.1:bad")).Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithWriteTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.OnStart(nil) })
	assert.Panics(t, func() { httpserver.OnStop(nil) })
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	srv := httpserver.NewFromConfig(
		httpserver.Config{Addr: "127.0.0.1:0", ReadTimeout: time.Second},
		httpserver.OnStart(func(_ context.Context, addr string) { addrCh <- addr }),
	)
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	waitDone(t, done)
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alive", decode(t, rec)["status"])
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, httpserver.Check{Name: "db", Probe: func(context.Context) error { return nil }})
		h(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"db": "ok"}, body["checks"])
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil,
			httpserver.Check{Name: "db", Probe: func(context.Context) error { return nil }},
			httpserver.Check{Name: "cache", Probe: func(context.Context) error { return errors.New("connection refused") }},
		)
		h(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, map[string]any{"db": "ok", "cache": "failed"}, body["checks"])
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}
