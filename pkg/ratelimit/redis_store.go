package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript mirrors MemoryStore.ConsumeTokens atomically.
// KEYS[1] bucket; ARGV: capacity, rate, interval ms, now ms, n, ttl ms.
// Returns {remaining, last refill ms}.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refill')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = capacity
  last = now
end

local intervals = math.floor((now - last) / interval)
local maxIntervals = math.floor(capacity / rate) + 1
if intervals > maxIntervals then
  intervals = maxIntervals
end
if intervals > 0 then
  tokens = math.min(tokens + intervals * rate, capacity)
  last = now
end

local remaining = tokens - n
if remaining >= 0 then
  tokens = remaining
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'refill', last)
redis.call('PEXPIRE', KEYS[1], ttl)
return {remaining, last}
`)

// DefaultRedisPrefix namespaces bucket keys.
const DefaultRedisPrefix = "ratelimit:"

// RedisStore shares buckets between instances through Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore returns a store using prefix for keys; empty means DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if client == nil {
		panic("ratelimit: nil redis client")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		s.now().UnixMilli(),
		n,
		cfg.ttl().Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: consume tokens: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}
	return int(res[0]), time.UnixMilli(res[1]).Add(cfg.RefillInterval), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("ratelimit: reset: %w", err)
	}
	return nil
}
