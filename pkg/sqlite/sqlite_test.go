package sqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	cfg := sqlite.Config{Path: sqlite.MemoryPath, MigrationsTable: "schema_migrations"}

	db, err := sqlite.Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlite.Migrate(ctx, db, os.DirFS("testdata"), "migrations", cfg, nil))
	// second run is a no-op
	require.NoError(t, sqlite.Migrate(ctx, db, os.DirFS("testdata"), "migrations", cfg, nil))

	assert.NoError(t, sqlite.Healthcheck(db)(ctx))

	_, err = db.ExecContext(ctx, `INSERT INTO owners (id) VALUES ('o1')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO widgets (name, owner_id) VALUES ('gear', 'o1')`)
	require.NoError(t, err)

	t.Run("unique", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `INSERT INTO widgets (name, owner_id) VALUES ('gear', 'o1')`)
		require.Error(t, err)
		assert.True(t, sqlite.IsUniqueViolation(err))

		var ce *core.ConstraintError
		require.ErrorAs(t, sqlite.ClassifyError(err), &ce)
		assert.Equal(t, core.UniqueViolation, ce.Type)
		assert.Equal(t, "name", ce.Field)
	})

	t.Run("primary key", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `INSERT INTO owners (id) VALUES ('o1')`)
		require.Error(t, err)

		var ce *core.ConstraintError
		require.ErrorAs(t, sqlite.ClassifyError(err), &ce)
		assert.Equal(t, "id", ce.Field)
	})

	t.Run("foreign key", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `INSERT INTO widgets (name, owner_id) VALUES ('cog', 'ghost')`)
		require.Error(t, err)
		assert.True(t, sqlite.IsForeignKeyViolation(err))

		var ce *core.ConstraintError
		require.ErrorAs(t, sqlite.ClassifyError(err), &ce)
		assert.Equal(t, core.ForeignKeyViolation, ce.Type)
	})
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, WAL: true})
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), sqlite.Config{})
	assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
}

func TestClassifyError_PassThrough(t *testing.T) {
	t.Parallel()

	other := errors.New("boom")
	assert.Same(t, other, sqlite.ClassifyError(other))
	assert.NoError(t, sqlite.ClassifyError(nil))
}
