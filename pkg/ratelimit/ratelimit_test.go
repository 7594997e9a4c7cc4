package ratelimit_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/ratelimit"
)

var burst = ratelimit.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Hour}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) ratelimit.Store) {
	t.Run("burst then deny", func(t *testing.T) {
		b, err := ratelimit.NewBucket(newStore(t), burst)
		require.NoError(t, err)
		ctx := context.Background()

		for want := 2; want >= 0; want-- {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 3, res.Limit)
		}

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Greater(t, res.RetryAfter(), 59*time.Minute)

		other, err := b.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, other.Allowed())
	})

	t.Run("denied request does not drain", func(t *testing.T) {
		b, err := ratelimit.NewBucket(newStore(t), burst)
		require.NoError(t, err)
		ctx := context.Background()

		res, err := b.AllowN(ctx, "k", 5)
		require.NoError(t, err)
		assert.False(t, res.Allowed())

		res, err = b.AllowN(ctx, "k", 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Zero(t, res.Remaining)
	})

	t.Run("refill", func(t *testing.T) {
		cfg := ratelimit.Config{Capacity: 1, RefillRate: 1, RefillInterval: 50 * time.Millisecond}
		b, err := ratelimit.NewBucket(newStore(t), cfg)
		require.NoError(t, err)
		ctx := context.Background()

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed())

		res, err = b.Allow(ctx, "k")
		require.NoError(t, err)
		require.False(t, res.Allowed())

		time.Sleep(70 * time.Millisecond)
		res, err = b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("reset", func(t *testing.T) {
		b, err := ratelimit.NewBucket(newStore(t), burst)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = b.AllowN(ctx, "k", 3)
		require.NoError(t, err)
		require.NoError(t, b.Reset(ctx, "k"))

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	runStoreSuite(t, func(t *testing.T) ratelimit.Store {
		s := ratelimit.NewMemoryStore(0)
		t.Cleanup(s.Close)
		return s
	})
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	runStoreSuite(t, func(t *testing.T) ratelimit.Store {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return ratelimit.NewRedisStore(client, "")
	})
}

func TestRedisStore_KeyExpires(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b, err := ratelimit.NewBucket(ratelimit.NewRedisStore(client, "rl:"), burst)
	require.NoError(t, err)
	_, err = b.Allow(context.Background(), "k")
	require.NoError(t, err)

	require.True(t, mr.Exists("rl:k"))
	assert.Equal(t, 4*time.Hour, mr.TTL("rl:k"))
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore(0)
	defer store.Close()

	for _, cfg := range []ratelimit.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimit.NewBucket(store, cfg)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig, fmt.Sprint(cfg))
	}

	b, err := ratelimit.NewBucket(store, burst)
	require.NoError(t, err)
	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidTokenCount)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore(0)
	defer store.Close()
	b, err := ratelimit.NewBucket(store, ratelimit.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	h := handler.Wrap(func(ctx handler.Context, _ struct{}) error {
		return ctx.Success(map[string]any{"ok": true})
	}, handler.WithMiddleware[struct{}](ratelimit.Middleware(b, ratelimit.Composite(ratelimit.ByRoute, ratelimit.ByClientIP))))

	call := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = ip + ":1000"
		rec := httptest.NewRecorder()
		h(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("192.0.2.1").Code)
	rec := call("192.0.2.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"too_many_requests"`)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, http.StatusOK, call("192.0.2.2").Code)
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/a", nil)
	r.RemoteAddr = "192.0.2.9:1"
	ctx := handler.NewContext(httptest.NewRecorder(), r)

	assert.Equal(t, "GET /a:192.0.2.9", ratelimit.Composite(ratelimit.ByRoute, ratelimit.ByClientIP)(ctx))
	assert.Empty(t, ratelimit.Composite(ratelimit.ByPrincipal)(ctx))

	long := ratelimit.Composite(func(handler.Context) string { return string(make([]byte, 100)) })(ctx)
	assert.Len(t, long, 32)
}
