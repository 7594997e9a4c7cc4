package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig     = errors.New("ratelimit: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimit: invalid token count")
)

// Config describes a token bucket. Capacity tokens are available in a burst
// and RefillRate tokens return every RefillInterval.
type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"30s"`
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// ttl is how long an idle bucket takes to refill completely.
func (c Config) ttl() time.Duration {
	intervals := (c.Capacity + c.RefillRate - 1) / c.RefillRate
	return time.Duration(intervals+1) * c.RefillInterval
}

// Result is the outcome of one check.
type Result struct {
	Limit     int
	Remaining int // negative when the request was denied
	ResetAt   time.Time
}

func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket and takes n tokens if enough are left.
	// A denied request leaves the bucket untouched and reports remaining as
	// the (negative) shortfall.
	ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Bucket is a token bucket limiter over a Store.
type Bucket struct {
	store Store
	cfg   Config
}

func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	return b.AllowN(ctx, key, 1)
}

func (b *Bucket) AllowN(ctx context.Context, key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Limit: b.cfg.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

// refill applies the elapsed refill intervals to a bucket holding tokens since last.
func refill(tokens int, last, now time.Time, cfg Config) (int, time.Time) {
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := min(int64(now.Sub(last)/cfg.RefillInterval), maxIntervals)
	if intervals <= 0 {
		return tokens, last
	}
	return min(tokens+int(intervals)*cfg.RefillRate, cfg.Capacity), now
}
