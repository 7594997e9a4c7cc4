package auth

import (
	"time"

	"github.com/dmitrymomot/apikit/pkg/jwt"
)

// Config holds token and password settings loaded from the environment.
type Config struct {
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	Algorithm  string        `env:"AUTH_ALGORITHM" envDefault:"HS256"`
	Issuer     string        `env:"AUTH_ISSUER"`
	Audience   []string      `env:"AUTH_AUDIENCE" envSeparator:","`
	Leeway     time.Duration `env:"AUTH_LEEWAY" envDefault:"0s"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	Header     string        `env:"AUTH_HEADER"` // custom token header; empty means Authorization: Bearer
}

// Options converts the config into service options.
func (c Config) Options() []Option {
	opts := []Option{
		WithSignOptions(jwt.SignOptions{
			Algorithm: c.Algorithm,
			Issuer:    c.Issuer,
			Audience:  c.Audience,
		}),
		WithVerifyOptions(jwt.VerifyOptions{
			Algorithms: algorithms(c.Algorithm),
			Issuer:     c.Issuer,
			Audience:   first(c.Audience),
			Leeway:     c.Leeway,
		}),
		WithPasswordHasher(BcryptHasher{Cost: c.BcryptCost}),
	}
	if c.TokenTTL > 0 {
		opts = append(opts, WithTokenTTL(c.TokenTTL))
	}
	return opts
}

// MiddlewareOptions converts the config into middleware options.
func (c Config) MiddlewareOptions() []MiddlewareOption {
	if c.Header == "" {
		return nil
	}
	return []MiddlewareOption{WithHeader(c.Header)}
}

func algorithms(alg string) []string {
	if alg == "" {
		return nil
	}
	return []string{alg}
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
