package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dmitrymomot/apikit/pkg/dbmigrate"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens the database at cfg.Path and verifies it with a ping.
// Foreign keys are enforced on every pooled connection. An in-memory
// database is limited to one connection so all queries see the same data.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}

	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, errors.Join(ErrFailedToOpen, err)
	}

	if isMemory(cfg.Path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToOpen, err)
	}

	return db, nil
}

// Migrate applies the goose migrations found at dir inside fsys.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dir string, cfg Config, log *slog.Logger) error {
	return dbmigrate.Up(ctx, db, dbmigrate.Options{
		Dialect: dbmigrate.DialectSQLite,
		FS:      fsys,
		Dir:     dir,
		Table:   cfg.MigrationsTable,
		Logger:  log,
	})
}

func dsn(cfg Config) string {
	pragmas := url.Values{}
	pragmas.Add("_pragma", "foreign_keys(1)")
	if cfg.BusyTimeout > 0 {
		pragmas.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	if cfg.WAL && !isMemory(cfg.Path) {
		pragmas.Add("_pragma", "journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return cfg.Path + sep + pragmas.Encode()
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.Contains(path, "mode=memory")
}
