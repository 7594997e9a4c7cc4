// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown, and provides JSON liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled, the process receives SIGINT or SIGTERM,
// or Shutdown is called.
package httpserver
