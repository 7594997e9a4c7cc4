package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process. Buckets idle for longer than an hour
// are dropped by a background sweep.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore starts a sweep every cleanupInterval; zero disables it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	ms := &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go ms.sweep(cleanupInterval)
	}
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}
	b.tokens, b.lastRefill = refill(b.tokens, b.lastRefill, now, cfg)
	b.lastAccess = now

	remaining := b.tokens - n
	if remaining >= 0 {
		b.tokens = remaining
	}
	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// Len reports the number of tracked buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// Close stops the sweep. Safe to call more than once.
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ms.removeIdle(time.Hour)
		case <-ms.stop:
			return
		}
	}
}

func (ms *MemoryStore) removeIdle(idle time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	now := ms.now()
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > idle {
			delete(ms.buckets, key)
		}
	}
}
