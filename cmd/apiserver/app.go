package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/modules/account"
	"github.com/dmitrymomot/apikit/pkg/auth"
	"github.com/dmitrymomot/apikit/pkg/clientip"
	"github.com/dmitrymomot/apikit/pkg/environment"
	"github.com/dmitrymomot/apikit/pkg/httpserver"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/mongo"
	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/ratelimit"
	"github.com/dmitrymomot/apikit/pkg/requestid"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
	"github.com/dmitrymomot/apikit/router"
)

func run(ctx context.Context) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(s.App.Env, s.App.Name),
		logger.WithLevelName(s.App.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
			auth.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	db, err := sqlite.Open(ctx, s.SQLite)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := account.Migrate(ctx, db, s.SQLite, log); err != nil {
		return err
	}

	sessions, err := openSessions(ctx, s, db, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.close(); err != nil {
			log.Error("failed to close session store", logger.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go cleanupSessions(ctx, sessions.store, s.App.SessionCleanupInterval, log)

	limits := sessions.limits
	if limits == nil {
		mem := ratelimit.NewMemoryStore(time.Minute)
		defer mem.Close()
		limits = mem
	}
	bucket, err := ratelimit.NewBucket(limits, s.AuthLimit)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(sessions.store, append(s.Auth.Options(), auth.WithLogger(log))...)
	accounts := account.NewPasswordService(s.Account, account.NewSQLiteStorage(db), authSvc,
		account.WithLogger(log),
		account.WithThrottle(ratelimit.Middleware(bucket, ratelimit.ByClientIP)),
	)

	api := newRouter(s, accounts, log)

	checks := append([]httpserver.Check{{Name: "sqlite", Probe: sqlite.Healthcheck(db)}}, sessions.checks...)
	root := chi.NewRouter()
	root.Get("/health/live", httpserver.LivenessHandler())
	root.Get("/health/ready", httpserver.ReadinessHandler(log, checks...))
	root.Mount("/", api)

	srv := httpserver.NewFromConfig(s.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, root)
}

func newRouter(s settings, accounts *account.PasswordService, log *slog.Logger) http.Handler {
	onError := handler.NewErrorHandler(log, handler.WithClassifiers(
		sqlite.ClassifyError,
		pg.ClassifyError,
		mongo.ClassifyError,
	))

	rt := router.New(router.WithErrorHandler(onError), router.WithLogger(log))
	rt.UseHTTP(
		requestid.Middleware,
		clientip.Middleware(),
		environment.Middleware(environment.Parse(s.App.Env)),
	)
	rt.Prefix(s.App.APIPrefix)
	for _, g := range accounts.Routes("/auth", s.Auth.MiddlewareOptions()...) {
		rt.Group(g)
	}
	return rt
}
