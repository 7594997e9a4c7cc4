package handler

import (
	"net/http"

	"github.com/dmitrymomot/apikit/binder"
	"github.com/dmitrymomot/apikit/core"
)

// HandlerFunc handles a request whose input was produced by the route's Validator.
// It either writes a response via ctx.Success or returns an error for the ErrorHandler.
//
// Example:
//
//	func createPost(ctx handler.Context, req CreatePost) error {
//		post, err := posts.Create(ctx, ctx.PrincipalID(), req)
//		if err != nil {
//			return err
//		}
//		return ctx.Success(post, handler.WithStatus(http.StatusCreated))
//	}
type HandlerFunc[R any] func(ctx Context, req R) error

// Middleware runs before validation. Returning an error stops the chain.
// Middleware may enrich the context, e.g. with ctx.SetPrincipalID.
type Middleware func(ctx Context) error

// ErrorHandler writes the response for any error raised in the pipeline.
type ErrorHandler func(ctx Context, err error)

// Pipeline dispatches a single route: middleware in order, then the validator,
// then the handler. Every failure goes to ErrorHandler.
type Pipeline[R any] struct {
	Middleware   []Middleware
	Validator    Validator[R]
	Handler      HandlerFunc[R]
	Disabled     bool
	ErrorHandler ErrorHandler
	MaxBodySize  int64
}

// ServeHTTP implements http.Handler.
func (p Pipeline[R]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	onError := p.ErrorHandler
	if onError == nil {
		onError = DefaultErrorHandler
	}

	ctx := newContext(w, r, p.MaxBodySize)
	if err := p.dispatch(ctx); err != nil {
		onError(ctx, err)
	}
}

func (p Pipeline[R]) dispatch(ctx Context) error {
	for _, mw := range p.Middleware {
		if err := mw(ctx); err != nil {
			return err
		}
	}

	if p.Disabled {
		return core.ErrNotFound
	}
	if p.Handler == nil {
		return ErrNoHandler
	}

	var req R
	if p.Validator != nil {
		var err error
		if req, err = p.Validator(ctx); err != nil {
			return err
		}
	}

	if err := p.Handler(ctx, req); err != nil {
		return err
	}
	if !ctx.Written() {
		return ErrNoResponse
	}
	return nil
}

// WrapOption configures the Wrap function.
type WrapOption[R any] func(*Pipeline[R])

// WithMiddleware appends middleware to the pipeline.
func WithMiddleware[R any](mw ...Middleware) WrapOption[R] {
	return func(p *Pipeline[R]) {
		p.Middleware = append(p.Middleware, mw...)
	}
}

// WithValidator sets the validator that produces the handler's request value.
func WithValidator[R any](v Validator[R]) WrapOption[R] {
	return func(p *Pipeline[R]) {
		p.Validator = v
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(p *Pipeline[R]) {
		if h != nil {
			p.ErrorHandler = h
		}
	}
}

// WithMaxBodySize limits how many bytes of the body are decoded.
func WithMaxBodySize[R any](n int64) WrapOption[R] {
	return func(p *Pipeline[R]) {
		p.MaxBodySize = n
	}
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
//
// Usage:
//
//	http.Handle("/posts", handler.Wrap(createPost,
//		handler.WithMiddleware[CreatePost](authService.Middleware()),
//		handler.WithValidator(handler.Validate(createPostSchema)),
//		handler.WithErrorHandler[CreatePost](errorHandler),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	p := Pipeline[R]{
		Handler:      h,
		ErrorHandler: DefaultErrorHandler,
		MaxBodySize:  binder.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p.ServeHTTP
}
