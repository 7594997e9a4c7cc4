package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session binds a principal to the secret its tokens are signed with.
// Records are never mutated after creation; revoking a session deletes it.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	SecretKey string    `json:"secretKey"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the session is expired at t.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}

// TTL returns the remaining lifetime, or zero if expired.
func (s *Session) TTL() time.Duration {
	d := time.Until(s.ExpiresAt)
	if d < 0 {
		return 0
	}
	return d
}

// CreateParams holds the fields a caller supplies when opening a session.
type CreateParams struct {
	OwnerID   string
	SecretKey string
	ExpiresAt time.Time
}

// Validate checks that all fields are present and the expiry lies in the future.
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.OwnerID) == "" || p.SecretKey == "" || !p.ExpiresAt.After(time.Now()) {
		return ErrInvalidSession
	}
	return nil
}

// New builds a session with a fresh UUID from validated params.
// Stores use it so every backend assigns ids the same way.
func New(p CreateParams) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		OwnerID:   p.OwnerID,
		SecretKey: p.SecretKey,
		ExpiresAt: p.ExpiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
