// Package pgstore keeps sessions in a PostgreSQL table through pgx.
//
// The schema ships as embedded goose migrations; call Migrate once at startup.
// PostgreSQL has no native row expiry, so Store implements session.Cleaner
// and DeleteExpired should run periodically.
package pgstore

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates or upgrades the sessions table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, migrations, "migrations", cfg, log)
}

// DB is the subset of *pgxpool.Pool the store needs; pgx.Tx also satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements session.Store, session.Revoker, session.OwnerRevoker and session.Cleaner.
type Store struct {
	db DB
}

// New returns a Store over db.
func New(db DB) *Store {
	if db == nil {
		panic("pgstore: nil database")
	}
	return &Store{db: db}
}

const (
	insertSession = `INSERT INTO sessions (id, owner_id, secret_key, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)`
	selectSession = `SELECT id, owner_id, secret_key, expires_at, created_at
FROM sessions WHERE id = $1`
	deleteSession        = `DELETE FROM sessions WHERE id = $1`
	deleteOwnerSessions  = `DELETE FROM sessions WHERE owner_id = $1`
	deleteExpiredSession = `DELETE FROM sessions WHERE expires_at <= $1`
)

// Create inserts a new session row.
func (s *Store) Create(ctx context.Context, p session.CreateParams) (*session.Session, error) {
	sess, err := session.New(p)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(ctx, insertSession, sess.ID, sess.OwnerID, sess.SecretKey, sess.ExpiresAt, sess.CreatedAt); err != nil {
		return nil, fmt.Errorf("pgstore: create session: %w", err)
	}
	return sess, nil
}

// Find loads a session row by id.
func (s *Store) Find(ctx context.Context, id string) (*session.Session, error) {
	var sess session.Session
	err := s.db.QueryRow(ctx, selectSession, id).Scan(
		&sess.ID, &sess.OwnerID, &sess.SecretKey, &sess.ExpiresAt, &sess.CreatedAt,
	)
	if pg.IsNotFoundError(err) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: find session: %w", err)
	}

	if sess.IsExpired() {
		return nil, session.ErrSessionExpired
	}
	return &sess, nil
}

// Delete removes one session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, deleteSession, id); err != nil {
		return fmt.Errorf("pgstore: delete session: %w", err)
	}
	return nil
}

// DeleteByOwner removes every session of ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := s.db.Exec(ctx, deleteOwnerSessions, ownerID); err != nil {
		return fmt.Errorf("pgstore: delete owner sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and reports how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredSession, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
