package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/config"
)

type appConfig struct {
	Name    string        `env:"CFGTEST_NAME" envDefault:"svc"`
	Count   int           `env:"CFGTEST_COUNT" envDefault:"1"`
	Timeout time.Duration `env:"CFGTEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"CFGTEST_SECRET,required"`
}

type prefixedConfig struct {
	URL string `env:"URL"`
}

func TestLoad(t *testing.T) {
	config.Reset()
	t.Setenv("CFGTEST_NAME", "api")
	t.Setenv("CFGTEST_COUNT", "3")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	t.Run("cached per type", func(t *testing.T) {
		t.Setenv("CFGTEST_NAME", "changed")

		var again appConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "api", again.Name)

		config.Reset()
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "changed", again.Name)
	})
}

func TestLoad_Required(t *testing.T) {
	config.Reset()

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CFGTEST_SECRET", "s")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s", cfg.Secret)

	assert.NotPanics(t, func() { config.MustLoad(&cfg) })
}

func TestLoad_Prefix(t *testing.T) {
	config.Reset()
	t.Setenv("SESSIONS_URL", "redis://a")
	t.Setenv("USERS_URL", "redis://b")

	var sessions, users prefixedConfig
	require.NoError(t, config.Load(&sessions, config.WithPrefix("SESSIONS_")))
	require.NoError(t, config.Load(&users, config.WithPrefix("USERS_")))

	assert.Equal(t, "redis://a", sessions.URL)
	assert.Equal(t, "redis://b", users.URL)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *appConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	config.Reset()

	var cfg requiredConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

type fileConfig struct {
	Greeting string `env:"CFGFILE_GREETING"`
}

func TestLoadEnv(t *testing.T) {
	config.Reset()

	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Greeting)

	assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
}
