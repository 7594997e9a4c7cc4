// Package pg bootstraps PostgreSQL access with pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate runs embedded goose
// migrations over the same pool, and Healthcheck exposes a readiness probe.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations, "migrations", cfg, log); err != nil {
//	    return err
//	}
//
// ClassifyError maps SQLSTATE 23505 and 23503 to *core.ConstraintError so the
// HTTP error translator can answer 409 with the violated column.
package pg
