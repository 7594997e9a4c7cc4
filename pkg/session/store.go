package session

import "context"

// Store defines the interface for session persistence.
// Implementations own their consistency; the auth service never caches records.
type Store interface {
	// Create persists a new session and returns it with its assigned id.
	Create(ctx context.Context, p CreateParams) (*Session, error)

	// Find returns the session with the given id, ErrSessionNotFound if none
	// exists, or ErrSessionExpired if it exists but has expired.
	Find(ctx context.Context, id string) (*Session, error)
}

// Revoker is implemented by stores that can delete a single session.
type Revoker interface {
	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// OwnerRevoker is implemented by stores that can delete every session of a principal.
type OwnerRevoker interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// Cleaner is implemented by stores without native expiry.
type Cleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
