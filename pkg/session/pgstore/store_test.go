package pgstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/session/pgstore"
	"github.com/dmitrymomot/apikit/pkg/session/sessiontest"
)

func TestStore(t *testing.T) {
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "schema_migrations_test"}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, cfg, nil))

	sessiontest.Run(t, func(t *testing.T) session.Store {
		_, err := pool.Exec(ctx, `TRUNCATE sessions`)
		require.NoError(t, err)
		return pgstore.New(pool)
	})
}
