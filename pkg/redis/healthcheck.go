package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds a readiness ping when the caller's context has no deadline.
const pingTimeout = 2 * time.Second

// Healthcheck reports whether the session store still answers PING.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, pingTimeout)
			defer cancel()
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}
