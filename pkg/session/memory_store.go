package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-process storage.
// It suits tests and single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a new in-memory session store.
// A positive cleanupInterval starts a goroutine that evicts expired sessions; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Create stores a new session
func (m *MemoryStore) Create(ctx context.Context, p CreateParams) (*Session, error) {
	s, err := New(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *s
	m.sessions[s.ID] = &stored
	return s, nil
}

// Find retrieves a session by id
func (m *MemoryStore) Find(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if s.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	out := *s
	return &out, nil
}

// Delete removes a session by id
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// DeleteByOwner removes all sessions for a principal
func (m *MemoryStore) DeleteByOwner(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.OwnerID == ownerID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// DeleteExpired removes all expired sessions
func (m *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for id, s := range m.sessions {
		if s.IsExpiredAt(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, including expired ones not yet evicted.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_, _ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
