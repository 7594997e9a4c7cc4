// Package sqlitestore keeps sessions in an embedded SQLite database.
//
// Timestamps are stored as Unix nanoseconds. Expired rows are only removed by
// DeleteExpired; Find reports them as session.ErrSessionExpired.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates or upgrades the sessions table.
func Migrate(ctx context.Context, db *sql.DB, cfg sqlite.Config, log *slog.Logger) error {
	return sqlite.Migrate(ctx, db, migrations, "migrations", cfg, log)
}

// Store implements session.Store, session.Revoker, session.OwnerRevoker and session.Cleaner.
type Store struct {
	db *sql.DB
}

// New returns a Store over db.
func New(db *sql.DB) *Store {
	if db == nil {
		panic("sqlitestore: nil database")
	}
	return &Store{db: db}
}

// Create inserts a new session row.
func (s *Store) Create(ctx context.Context, p session.CreateParams) (*session.Session, error) {
	sess, err := session.New(p)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, owner_id, secret_key, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.OwnerID, sess.SecretKey, sess.ExpiresAt.UnixNano(), sess.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: create session: %w", err)
	}
	return sess, nil
}

// Find loads a session row by id.
func (s *Store) Find(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess               session.Session
		expires, createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, secret_key, expires_at, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.OwnerID, &sess.SecretKey, &expires, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: find session: %w", err)
	}

	sess.ExpiresAt = time.Unix(0, expires).UTC()
	sess.CreatedAt = time.Unix(0, createdAt).UTC()
	if sess.IsExpired() {
		return nil, session.ErrSessionExpired
	}
	return &sess, nil
}

// Delete removes one session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlitestore: delete session: %w", err)
	}
	return nil
}

// DeleteByOwner removes every session of ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("sqlitestore: delete owner sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and reports how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
