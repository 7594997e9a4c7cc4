// Package dbmigrate applies goose migrations from an embedded filesystem.
//
// goose keeps its dialect, table name and base filesystem in package globals,
// so Up serialises callers behind a mutex and restores the base filesystem on return.
package dbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

var ErrFailedToApplyMigrations = errors.New("failed to apply migrations")

// Goose dialect names.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Options describes one migration run.
type Options struct {
	Dialect string
	FS      fs.FS  // embedded migrations
	Dir     string // directory inside FS, "." when empty
	Table   string // version table, goose default when empty
	Logger  *slog.Logger
}

var mu sync.Mutex

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, opts Options) error {
	if opts.FS == nil {
		return errors.Join(ErrFailedToApplyMigrations, errors.New("dbmigrate: nil migrations filesystem"))
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(opts.FS)
	defer goose.SetBaseFS(nil)

	// Route goose migration logs through the application logger instead of stdout.
	goose.SetLogger(&slogAdapter{log: log})
	if opts.Table != "" {
		goose.SetTableName(opts.Table)
		defer goose.SetTableName("goose_db_version")
	}

	if err := goose.SetDialect(opts.Dialect); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}

type slogAdapter struct {
	log *slog.Logger
}

func (a *slogAdapter) Fatalf(format string, v ...any) {
	a.log.Error(fmt.Sprintf(format, v...), slog.String("component", "migrate"))
}

func (a *slogAdapter) Printf(format string, v ...any) {
	a.log.Info(fmt.Sprintf(format, v...), slog.String("component", "migrate"))
}
