package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + srv.Addr() + "/0",
		RetryAttempts:  1,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, redis.Healthcheck(client)(context.Background()))
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyURL)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + addr + "/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrNotReady)
	})
}

func TestHealthcheck_Down(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "redis://" + srv.Addr(), RetryAttempts: 1})
	require.NoError(t, err)
	defer client.Close()

	srv.Close()
	assert.ErrorIs(t, redis.Healthcheck(client)(context.Background()), redis.ErrUnhealthy)
}
