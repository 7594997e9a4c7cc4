package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/jwt"
	"github.com/dmitrymomot/apikit/pkg/logger"
)

// MiddlewareOption configures Service.Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	extract jwt.TokenExtractorFunc
}

// WithHeader reads the raw token from a custom header instead of
// "Authorization: Bearer". The header must be sent exactly once.
func WithHeader(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.extract = jwt.HeaderTokenExtractor(name)
		}
	}
}

// WithExtractor sets an arbitrary token extractor, e.g. jwt.CookieTokenExtractor.
func WithExtractor(fn jwt.TokenExtractorFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.extract = fn
		}
	}
}

// Middleware authenticates the request before validation runs.
//
// A missing token fails with core.ErrRequiredToken, a repeated custom header
// with core.ErrMalformedToken. Verification errors are those of Verify.
// On success the principal id is available through ctx.PrincipalID and PrincipalID.
func (s *Service) Middleware(opts ...MiddlewareOption) handler.Middleware {
	cfg := &middlewareConfig{extract: jwt.BearerTokenExtractor}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx handler.Context) error {
		token, err := cfg.extract(ctx.Request())
		if err != nil {
			return s.reject(ctx, StageAwaitToken, extractError(err))
		}

		v, stage, err := s.verifyToken(ctx, token)
		if err != nil {
			return s.reject(ctx, stage, err)
		}

		ctx.SetPrincipalID(v.principalID)
		ctx.SetValue(sessionKey, v.sessionID)
		return nil
	}
}

// HTTPMiddleware exposes the same checks as a plain net/http middleware.
// Rejections are written by onError; a nil onError uses handler.DefaultErrorHandler.
func (s *Service) HTTPMiddleware(onError handler.ErrorHandler, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	mw := s.Middleware(opts...)
	if onError == nil {
		onError = handler.DefaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := handler.NewContext(w, r)
			if err := mw(ctx); err != nil {
				onError(ctx, err)
				return
			}
			next.ServeHTTP(w, ctx.Request())
		})
	}
}

func (s *Service) reject(ctx handler.Context, stage Stage, err error) error {
	s.log.DebugContext(ctx, "request not authenticated",
		logger.Stage(stage.String()),
		logger.Error(err),
		logger.Component("auth"),
	)
	return err
}

func extractError(err error) error {
	if errors.Is(err, jwt.ErrMultipleTokens) {
		return errors.Join(core.ErrMalformedToken, err)
	}
	return errors.Join(core.ErrRequiredToken, err)
}
