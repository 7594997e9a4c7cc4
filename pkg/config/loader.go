package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cache struct {
	mu     sync.Mutex
	values map[string]any
}

var (
	loaded = &cache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// Option configures a single Load call.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix prepends prefix to every env tag of the struct, so the same
// config type can be loaded for several instances (e.g. "SESSIONS_" and "USERS_").
// Each prefix is cached separately.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// Load parses environment variables into v according to its env tags.
// A .env file in the working directory is read once before the first parse.
// Successful results are cached per type and prefix; later calls copy the
// cached value into v without reading the environment again.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	key := typeName[T]() + "|" + o.prefix

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.ParseWithOptions(&parsed, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	loaded.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given dotenv files into the process environment without
// overriding variables that are already set. With no arguments it reads .env.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reset drops every cached configuration. Tests use it after changing the environment.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	clear(loaded.values)
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
