package main

import (
	"time"

	"github.com/dmitrymomot/apikit/modules/account"
	"github.com/dmitrymomot/apikit/pkg/auth"
	"github.com/dmitrymomot/apikit/pkg/config"
	"github.com/dmitrymomot/apikit/pkg/httpserver"
	"github.com/dmitrymomot/apikit/pkg/ratelimit"
	"github.com/dmitrymomot/apikit/pkg/sqlite"
)

// Session store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Name      string `env:"APP_NAME" envDefault:"apiserver"`
	LogLevel  string `env:"LOG_LEVEL"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api"`

	SessionDriver          string        `env:"SESSION_DRIVER" envDefault:"memory"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

// settings groups every config section the server reads at startup.
// Driver-specific sections (Redis, Postgres, Mongo) are loaded on demand.
type settings struct {
	App     appConfig
	Auth    auth.Config
	Account account.Config
	HTTP    httpserver.Config
	SQLite  sqlite.Config

	// AuthLimit throttles register and login per client address.
	AuthLimit ratelimit.Config
}

func loadSettings() (settings, error) {
	var s settings
	if err := config.Load(&s.App); err != nil {
		return s, err
	}
	if err := config.Load(&s.Auth); err != nil {
		return s, err
	}
	if err := config.Load(&s.Account); err != nil {
		return s, err
	}
	if err := config.Load(&s.HTTP); err != nil {
		return s, err
	}
	if err := config.Load(&s.SQLite); err != nil {
		return s, err
	}
	if err := config.Load(&s.AuthLimit, config.WithPrefix("AUTH_RATE_LIMIT_")); err != nil {
		return s, err
	}
	return s, nil
}
