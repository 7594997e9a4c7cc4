// Package logger builds *slog.Logger values with functional options and a
// handler decorator that copies request-scoped values from the context into
// every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "apiserver"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (Error, PrincipalID, SessionID, RequestID, Stage, Route,
// Status, Component) keep key names consistent across packages; Error and
// the id helpers return an empty Attr for empty input so callers can pass
// values without nil checks.
package logger
