package environment

import (
	"context"
	"log/slog"
)

// LogAttr is the attribute request logs carry for e.
func (e Environment) LogAttr() slog.Attr {
	return slog.String("env", e.String())
}

// LoggerExtractor tags each log record with the deployment taken from the
// request context. Records from a context without one stay untagged.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		env := FromContext(ctx)
		if env == "" {
			return slog.Attr{}, false
		}
		return env.LogAttr(), true
	}
}
