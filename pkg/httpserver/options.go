package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Server. Invalid values panic when the option is built.
type Option func(*options)

type options struct {
	addr              string
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	onStart           []func(ctx context.Context, addr string)
	onStop            []func(ctx context.Context)
}

func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return func(o *options) { o.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	mustPositive("read timeout", d)
	return func(o *options) { o.readTimeout = d }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	mustPositive("read header timeout", d)
	return func(o *options) { o.readHeaderTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	mustPositive("write timeout", d)
	return func(o *options) { o.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	mustPositive("idle timeout", d)
	return func(o *options) { o.idleTimeout = d }
}

func WithShutdownTimeout(d time.Duration) Option {
	mustPositive("shutdown timeout", d)
	return func(o *options) { o.shutdownTimeout = d }
}

// WithLogger sets the logger for lifecycle messages and http.Server errors.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// OnStart registers a hook called after the listener is bound.
func OnStart(fn func(ctx context.Context, addr string)) Option {
	if fn == nil {
		panic("httpserver: nil start hook")
	}
	return func(o *options) { o.onStart = append(o.onStart, fn) }
}

// OnStop registers a hook called after a graceful shutdown completes.
func OnStop(fn func(ctx context.Context)) Option {
	if fn == nil {
		panic("httpserver: nil stop hook")
	}
	return func(o *options) { o.onStop = append(o.onStop, fn) }
}

func mustPositive(name string, d time.Duration) {
	if d <= 0 {
		panic("httpserver: " + name + " must be positive")
	}
}
