package sqlitestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/session/sessiontest"
	"github.com/dmitrymomot/apikit/pkg/session/sqlitestore"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
)

func TestStore(t *testing.T) {
	sessiontest.Run(t, func(t *testing.T) session.Store {
		ctx := context.Background()
		cfg := sqlite.Config{Path: sqlite.MemoryPath}

		db, err := sqlite.Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		require.NoError(t, sqlitestore.Migrate(ctx, db, cfg, nil))
		return sqlitestore.New(db)
	})
}

func TestNew_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { sqlitestore.New(nil) })
}
