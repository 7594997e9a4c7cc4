package pg

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/apikit/pkg/dbmigrate"
)

// Migrate applies the goose migrations found at dir inside fsys.
// goose needs database/sql, so the pool is bridged with stdlib.OpenDBFromPool;
// the bridge shares the pool's connections and is closed on return.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string, cfg Config, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil && log != nil {
			log.ErrorContext(ctx, "failed to close migration connection", slog.Any("error", err))
		}
	}()

	return dbmigrate.Up(ctx, db, dbmigrate.Options{
		Dialect: dbmigrate.DialectPostgres,
		FS:      fsys,
		Dir:     dir,
		Table:   cfg.MigrationsTable,
		Logger:  log,
	})
}
