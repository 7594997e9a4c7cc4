package router

import (
	"log/slog"

	"github.com/dmitrymomot/apikit/handler"
)

// Option configures a Router.
type Option func(*Router)

// WithErrorHandler sets the error handler used by every route and by the
// not-found and method-not-allowed fallbacks.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(rt *Router) {
		if h != nil {
			rt.errorHandler = h
		}
	}
}

// WithMaxBodySize limits how many bytes of each request body are decoded.
func WithMaxBodySize(n int64) Option {
	return func(rt *Router) {
		if n > 0 {
			rt.maxBodySize = n
		}
	}
}

// WithLogger sets the logger used for route registration events.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Router) {
		if l != nil {
			rt.logger = l
		}
	}
}
