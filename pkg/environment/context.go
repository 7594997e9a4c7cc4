package environment

import (
	"context"
	"strings"
)

// Environment names the deployment an application runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalises common spellings ("prod", "stage", "dev") and falls back
// to Development for anything it does not recognise.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsStaging() bool     { return e == Staging }
func (e Environment) IsDevelopment() bool { return e == Development }

type contextKey struct{}

// WithContext stores env in ctx.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or "" if none.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}
