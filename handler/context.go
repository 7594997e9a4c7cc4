package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/apikit/binder"
)

// Context wraps http.Request and http.ResponseWriter with context.Context.
// It embeds the request's context and carries the per-call state of the pipeline:
// the coerced request view and the authenticated principal.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter

	// Input returns the lazily parsed view over body, query and path parameters.
	Input() *Input

	// PrincipalID returns the authenticated principal, or an empty string.
	PrincipalID() string
	SetPrincipalID(id string)

	// SetValue stores a value in the request context for later middleware and handlers.
	SetValue(key, value any)

	// Success writes the success envelope. See SuccessOption.
	Success(data any, opts ...SuccessOption) error

	// Written reports whether a status or body has been sent.
	Written() bool
}

// NewContext creates a new Context from HTTP request and response writer.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return newContext(w, r, binder.DefaultMaxBodySize)
}

func newContext(w http.ResponseWriter, r *http.Request, maxBodySize int64) *httpContext {
	return &httpContext{
		w:     &responseWriter{ResponseWriter: w},
		r:     r,
		input: NewInput(r, maxBodySize),
	}
}

// httpContext is the default implementation of Context.
type httpContext struct {
	w     *responseWriter
	r     *http.Request
	input *Input
}

func (c *httpContext) Request() *http.Request {
	return c.r
}

func (c *httpContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

func (c *httpContext) Input() *Input {
	return c.input
}

func (c *httpContext) PrincipalID() string {
	return PrincipalIDFromContext(c.r.Context())
}

func (c *httpContext) SetPrincipalID(id string) {
	c.r = c.r.WithContext(WithPrincipalID(c.r.Context(), id))
}

func (c *httpContext) SetValue(key, value any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, value))
}

func (c *httpContext) Success(data any, opts ...SuccessOption) error {
	status, body, err := successEnvelope(data, opts...)
	if err != nil {
		return err
	}
	return writeJSON(c.w, status, body)
}

func (c *httpContext) Written() bool {
	return c.w.written
}

// Delegate context.Context methods to the request's context
func (c *httpContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *httpContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *httpContext) Err() error {
	return c.r.Context().Err()
}

func (c *httpContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// responseWriter records whether anything was sent to the client.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// ContextKey provides type-safe context keys to prevent key collisions.
// Should be created as package-level variables for consistent access.
type ContextKey struct{ name string }

// String returns a string representation of the context key for debugging.
func (c *ContextKey) String() string {
	return c.name
}

// NewContextKey creates a new context key.
// The name should be unique within your application.
//
// Example:
//
//	var tenantKey = handler.NewContextKey("tenant")
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not present or has a different type.
//
// Example:
//
//	ctx.SetValue(tenantKey, tenant)
//	tenant := handler.ContextValue[*Tenant](ctx, tenantKey)
func ContextValue[T any](ctx context.Context, key any) T {
	val, _ := ctx.Value(key).(T)
	return val
}

var principalKey = NewContextKey("principal_id")

// WithPrincipalID stores the authenticated principal id in ctx.
func WithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, principalKey, id)
}

// PrincipalIDFromContext returns the authenticated principal id, or an empty string.
func PrincipalIDFromContext(ctx context.Context) string {
	return ContextValue[string](ctx, principalKey)
}
