package account

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/dmitrymomot/apikit/pkg/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsTable keeps account schema versions apart from other modules sharing the database.
const MigrationsTable = "account_migrations"

// Migrate creates or upgrades the users table.
func Migrate(ctx context.Context, db *sql.DB, cfg sqlite.Config, log *slog.Logger) error {
	cfg.MigrationsTable = MigrationsTable
	return sqlite.Migrate(ctx, db, migrations, "migrations", cfg, log)
}

// SQLiteStorage implements Storage on top of database/sql and modernc.org/sqlite.
// Constraint failures are returned as driver errors; sqlite.ClassifyError turns
// them into conflicts at the HTTP boundary.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	if db == nil {
		panic("account: nil database")
	}
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) CreateUser(ctx context.Context, u NewUser, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(u.Email),
		Name:         strings.TrimSpace(u.Name),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return User{}, fmt.Errorf("account: create user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.get(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, normalizeEmail(email))
}

func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLiteStorage) get(ctx context.Context, query string, arg string) (User, error) {
	var (
		u       User
		created int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("account: load user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return u, nil
}

func normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
