package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT or SIGTERM, then shuts it down gracefully.
type Server struct {
	opts options

	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

// New returns a Server listening on :8080 unless WithAddr says otherwise.
func New(opts ...Option) *Server {
	o := options{
		addr:              ":8080",
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   10 * time.Second,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Run serves handler and blocks until shutdown. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	s.srv = &http.Server{
		Addr:              s.opts.addr,
		Handler:           handler,
		ReadTimeout:       s.opts.readTimeout,
		ReadHeaderTimeout: s.opts.readHeaderTimeout,
		WriteTimeout:      s.opts.writeTimeout,
		IdleTimeout:       s.opts.idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.opts.logger.Handler(), slog.LevelError),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv := s.srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		s.mu.Lock()
		s.srv = nil
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ln.Addr().String()
	s.opts.logger.InfoContext(ctx, "http server started", slog.String("addr", addr))
	for _, fn := range s.opts.onStart {
		fn(ctx, addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	var serveErr error
	select {
	case <-ctx.Done():
		if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
			s.opts.logger.ErrorContext(ctx, "http server shutdown failed", logger.Error(err))
		}
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, serveErr)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests up to
// the shutdown timeout. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.opts.shutdownTimeout)
		defer cancel()

		err = srv.Shutdown(ctx)
		for _, fn := range s.opts.onStop {
			fn(ctx)
		}
		s.opts.logger.InfoContext(ctx, "http server stopped")
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
