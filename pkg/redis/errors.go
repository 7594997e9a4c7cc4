package redis

import "errors"

// Connect and Healthcheck wrap the driver error with one of these, so callers
// can branch on errors.Is without matching go-redis messages.
var (
	// ErrEmptyURL means no REDIS_URL was configured for the session store.
	ErrEmptyURL = errors.New("redis: connection url is not set")
	// ErrInvalidURL wraps the redis.ParseURL failure.
	ErrInvalidURL = errors.New("redis: invalid connection url")
	// ErrNotReady is returned once every connect attempt has failed.
	ErrNotReady = errors.New("redis: server not reachable after retries")
	// ErrUnhealthy is reported by the readiness check.
	ErrUnhealthy = errors.New("redis: ping failed")
)
