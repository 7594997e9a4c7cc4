package auth

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/logger"
)

var sessionKey = handler.NewContextKey("session_id")

// PrincipalID returns the principal authenticated by the middleware, or an empty string.
func PrincipalID(ctx context.Context) string {
	return handler.PrincipalIDFromContext(ctx)
}

// SessionID returns the id of the session the request was authenticated with.
func SessionID(ctx context.Context) string {
	return handler.ContextValue[string](ctx, sessionKey)
}

// LoggerExtractor adds the authenticated principal and session to log records
// written with a handler.Context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := PrincipalID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		attrs := []any{slog.String("id", id)}
		if sid := SessionID(ctx); sid != "" {
			attrs = append(attrs, slog.String("session", sid))
		}
		return slog.Group("principal", attrs...), true
	}
}
