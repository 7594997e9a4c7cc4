package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/apikit/pkg/config"
	"github.com/dmitrymomot/apikit/pkg/httpserver"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/mongo"
	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/ratelimit"
	"github.com/dmitrymomot/apikit/pkg/redis"
	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/session/mongostore"
	"github.com/dmitrymomot/apikit/pkg/session/pgstore"
	"github.com/dmitrymomot/apikit/pkg/session/redisstore"
	"github.com/dmitrymomot/apikit/pkg/session/sqlitestore"
)

// sessionBackend is an opened session store with its readiness probes and cleanup.
// limits is set when the backend can also hold rate limit buckets.
type sessionBackend struct {
	store  session.Store
	limits ratelimit.Store
	checks []httpserver.Check
	close  func() error
}

func openSessions(ctx context.Context, s settings, db *sql.DB, log *slog.Logger) (*sessionBackend, error) {
	switch s.App.SessionDriver {
	case DriverMemory:
		store := session.NewMemoryStore(s.App.SessionCleanupInterval)
		return &sessionBackend{store: store, close: store.Close}, nil

	case DriverSQLite:
		if err := sqlitestore.Migrate(ctx, db, s.SQLite, log); err != nil {
			return nil, err
		}
		return &sessionBackend{store: sqlitestore.New(db), close: func() error { return nil }}, nil

	case DriverRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &sessionBackend{
			store:  redisstore.New(client),
			limits: ratelimit.NewRedisStore(client, ""),
			checks: []httpserver.Check{{Name: "redis", Probe: redis.Healthcheck(client)}},
			close:  client.Close,
		}, nil

	case DriverPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &sessionBackend{
			store:  pgstore.New(pool),
			checks: []httpserver.Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}},
			close:  func() error { pool.Close(); return nil },
		}, nil

	case DriverMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client.Database(cfg.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return &sessionBackend{
			store:  store,
			checks: []httpserver.Check{{Name: "mongo", Probe: mongo.Healthcheck(client)}},
			close:  func() error { return client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown session driver %q", s.App.SessionDriver)
}

// cleanupSessions purges expired rows from stores without native expiry until ctx ends.
func cleanupSessions(ctx context.Context, store session.Store, every time.Duration, log *slog.Logger) {
	cleaner, ok := store.(session.Cleaner)
	if !ok || every <= 0 {
		return
	}
	if _, isMemory := store.(*session.MemoryStore); isMemory {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cleaner.DeleteExpired(ctx)
			if err != nil {
				log.ErrorContext(ctx, "session cleanup failed", logger.Error(err), logger.Component("sessions"))
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "expired sessions removed", slog.Int64("count", n), logger.Component("sessions"))
			}
		}
	}
}
