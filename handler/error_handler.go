package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/requestid"
	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// UnhandledDetails is the only message clients see for unrecognised failures.
const UnhandledDetails = "Something is Wrong"

// ErrorEntry is one element of the error envelope.
type ErrorEntry struct {
	Name       string `json:"name"`
	Details    string `json:"details"`
	Status     int    `json:"status"`
	Field      string `json:"field,omitempty"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Errors []ErrorEntry `json:"errors"`
}

// Classifier converts driver or domain errors into core error types.
// It returns err unchanged when it does not recognise it.
type Classifier func(err error) error

// Translation is the response decided for an error.
type Translation struct {
	Status    int
	Body      any
	LogLevel  slog.Level
	Kind      core.Kind
	Unhandled bool
}

// Translate maps err to exactly one response. Checks are exclusive and ordered:
// success pseudo-error, validation failure, constraint violation, session failure,
// typed HTTP error, and finally the generic 500.
func Translate(err error, classifiers ...Classifier) Translation {
	for _, classify := range classifiers {
		if classify != nil {
			err = classify(err)
		}
	}

	var success *core.SuccessResult
	if errors.As(err, &success) {
		status, body, envErr := successEnvelope(success.Data, WithStatus(success.Code))
		if envErr != nil {
			return unhandled()
		}
		return Translation{Status: status, Body: body, LogLevel: slog.LevelDebug}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationTranslation(validationErrs)
	}

	var constraintErr *core.ConstraintError
	if errors.As(err, &constraintErr) {
		return Translation{
			Status: http.StatusConflict,
			Body: ErrorEnvelope{Errors: []ErrorEntry{{
				Name:    core.StatusKey(http.StatusConflict),
				Details: constraintErr.Message,
				Status:  http.StatusConflict,
				Field:   constraintErr.Field,
				Type:    string(constraintErr.Type),
			}}},
			LogLevel: slog.LevelWarn,
			Kind:     constraintErr.Kind(),
		}
	}

	if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
		return httpTranslation(core.ErrInvalidToken)
	}

	var httpErr core.HTTPError
	if errors.As(err, &httpErr) {
		return httpTranslation(httpErr)
	}

	return unhandled()
}

func validationTranslation(errs validator.ValidationErrors) Translation {
	status := http.StatusUnprocessableEntity
	entries := make([]ErrorEntry, 0, len(errs))
	for _, e := range errs {
		entries = append(entries, ErrorEntry{
			Name:    core.StatusKey(status),
			Details: e.Message,
			Status:  status,
			Field:   e.Field,
			Type:    e.TranslationKey,
		})
	}
	return Translation{
		Status:   status,
		Body:     ErrorEnvelope{Errors: entries},
		LogLevel: slog.LevelWarn,
		Kind:     core.KindValidation,
	}
}

func httpTranslation(e core.HTTPError) Translation {
	if e.Key == "" {
		e.Key = core.StatusKey(e.Code)
	}
	return Translation{
		Status: e.Code,
		Body: ErrorEnvelope{Errors: []ErrorEntry{{
			Name:    e.Key,
			Details: e.Message(),
			Status:  e.Code,
		}}},
		LogLevel: determineLogLevel(e.Code),
		Kind:     e.Kind,
	}
}

func unhandled() Translation {
	return Translation{
		Status: http.StatusInternalServerError,
		Body: ErrorEnvelope{Errors: []ErrorEntry{{
			Name:    core.StatusKey(http.StatusInternalServerError),
			Details: UnhandledDetails,
			Status:  http.StatusInternalServerError,
		}}},
		LogLevel:  slog.LevelError,
		Kind:      core.KindUnhandled,
		Unhandled: true,
	}
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	switch {
	case statusCode < http.StatusBadRequest:
		return slog.LevelDebug
	case statusCode < http.StatusInternalServerError:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ErrorHandlerOption configures NewErrorHandler.
type ErrorHandlerOption func(*errorHandlerConfig)

type errorHandlerConfig struct {
	classifiers []Classifier
}

// WithClassifiers registers error classifiers, e.g. pg.ClassifyError or sqlite.ClassifyError.
func WithClassifiers(classifiers ...Classifier) ErrorHandlerOption {
	return func(c *errorHandlerConfig) {
		c.classifiers = append(c.classifiers, classifiers...)
	}
}

// NewErrorHandler creates the error handler shared by every route.
// It translates the error, logs it and writes exactly one JSON response.
// If the handler already wrote a response the error is only logged.
// A nil logger resolves to slog.Default at call time.
// Configure this once in main.go and pass it to the router.
func NewErrorHandler(l *slog.Logger, opts ...ErrorHandlerOption) ErrorHandler {
	cfg := &errorHandlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx Context, err error) {
		log := l
		if log == nil {
			log = slog.Default()
		}
		t := Translate(err, cfg.classifiers...)

		if t.Status >= http.StatusBadRequest {
			logError(log, ctx, err, t)
		}

		if ctx.Written() {
			log.WarnContext(ctx, "response already written, dropping error response",
				logger.Component("error_handler"),
				logger.Error(err),
			)
			return
		}

		if writeErr := writeJSON(ctx.ResponseWriter(), t.Status, t.Body); writeErr != nil {
			log.ErrorContext(ctx, "failed to write error response",
				logger.Component("error_handler"),
				logger.Error(writeErr),
			)
		}
	}
}

// logError logs the error with request context
func logError(log *slog.Logger, ctx Context, err error, t Translation) {
	r := ctx.Request()
	log.LogAttrs(ctx, t.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		slog.Int("status_code", t.Status),
		slog.String("kind", t.Kind.String()),
		slog.Bool("unhandled", t.Unhandled),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)
}

var defaultErrorHandler = NewErrorHandler(nil)

// DefaultErrorHandler translates errors and logs through slog.Default.
func DefaultErrorHandler(ctx Context, err error) {
	defaultErrorHandler(ctx, err)
}
