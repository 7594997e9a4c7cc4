package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apikit/binder"
	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/logger"
)

// Supported route methods.
const (
	MethodPost   = "post"
	MethodGet    = "get"
	MethodPut    = "put"
	MethodPatch  = "patch"
	MethodDelete = "delete"
)

var httpMethods = map[string]string{
	MethodPost:   http.MethodPost,
	MethodGet:    http.MethodGet,
	MethodPut:    http.MethodPut,
	MethodPatch:  http.MethodPatch,
	MethodDelete: http.MethodDelete,
}

// Definition is implemented by Route. It lets routes with different request
// types be registered together.
type Definition interface {
	definition() routeInfo
	pipeline(shared []handler.Middleware, onError handler.ErrorHandler, maxBody int64) http.Handler
}

type routeInfo struct {
	method string
	path   string
}

// Route describes one endpoint. Routes are immutable once registered.
type Route[R any] struct {
	Method     string
	Path       string
	Handler    handler.HandlerFunc[R]
	Middleware []handler.Middleware
	Validator  handler.Validator[R]
	Disabled   bool
}

func (r Route[R]) definition() routeInfo {
	return routeInfo{method: r.Method, path: r.Path}
}

func (r Route[R]) pipeline(shared []handler.Middleware, onError handler.ErrorHandler, maxBody int64) http.Handler {
	mw := make([]handler.Middleware, 0, len(shared)+len(r.Middleware))
	mw = append(mw, shared...)
	mw = append(mw, r.Middleware...)
	return handler.Pipeline[R]{
		Middleware:   mw,
		Validator:    r.Validator,
		Handler:      r.Handler,
		Disabled:     r.Disabled,
		ErrorHandler: onError,
		MaxBodySize:  maxBody,
	}
}

// Group registers routes under a shared prefix and middleware.
type Group struct {
	Prefix     string
	Middleware []handler.Middleware
	Routes     []Definition
}

// RouteInfo describes a registered endpoint.
type RouteInfo struct {
	Method string
	Path   string
}

// Router maps method+path pairs to pipelines. The route table is built at startup;
// registering after the first request has been served panics.
type Router struct {
	mux          chi.Router
	prefix       string
	middleware   []handler.Middleware
	errorHandler handler.ErrorHandler
	maxBodySize  int64
	logger       *slog.Logger

	seen   map[string]struct{}
	routes []RouteInfo
	frozen atomic.Bool
}

// New creates a router. By default errors go through handler.DefaultErrorHandler.
func New(opts ...Option) *Router {
	rt := &Router{
		mux:          chi.NewRouter(),
		errorHandler: handler.DefaultErrorHandler,
		maxBodySize:  binder.DefaultMaxBodySize,
		logger:       slog.New(slog.DiscardHandler),
		seen:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.mux.NotFound(rt.fallback(core.ErrNotFound))
	rt.mux.MethodNotAllowed(rt.fallback(core.ErrMethodNotAllowed))

	return rt
}

// Use appends middleware that runs before every route registered afterwards.
func (rt *Router) Use(mw ...handler.Middleware) *Router {
	rt.mustNotBeFrozen()
	rt.middleware = append(rt.middleware, mw...)
	return rt
}

// UseHTTP registers plain net/http middleware (request id, recovery, CORS) on the
// underlying mux. It must be called before any route is registered.
func (rt *Router) UseHTTP(mw ...func(http.Handler) http.Handler) *Router {
	rt.mustNotBeFrozen()
	rt.mux.Use(mw...)
	return rt
}

// Prefix sets the prefix applied to routes registered afterwards.
func (rt *Router) Prefix(prefix string) *Router {
	rt.mustNotBeFrozen()
	rt.prefix = prefix
	return rt
}

// Handle registers routes under the router prefix and middleware.
func (rt *Router) Handle(defs ...Definition) *Router {
	rt.mustNotBeFrozen()
	for _, def := range defs {
		rt.register(rt.prefix, rt.middleware, def)
	}
	return rt
}

// Group registers a group of routes. The group prefix is joined to the router
// prefix, and group middleware runs after router middleware.
func (rt *Router) Group(g Group) *Router {
	rt.mustNotBeFrozen()
	prefix := JoinPath(rt.prefix, g.Prefix)
	mw := make([]handler.Middleware, 0, len(rt.middleware)+len(g.Middleware))
	mw = append(mw, rt.middleware...)
	mw = append(mw, g.Middleware...)
	for _, def := range g.Routes {
		rt.register(prefix, mw, def)
	}
	return rt
}

// Routes lists the registered endpoints in registration order.
func (rt *Router) Routes() []RouteInfo {
	return append([]RouteInfo(nil), rt.routes...)
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.frozen.Store(true)
	rt.mux.ServeHTTP(w, r)
}

func (rt *Router) register(prefix string, shared []handler.Middleware, def Definition) {
	info := def.definition()

	method, ok := httpMethods[strings.ToLower(info.method)]
	if !ok {
		panic(fmt.Sprintf("router: unsupported method %q for path %q", info.method, info.path))
	}

	path := JoinPath(prefix, info.path)
	if path == "" {
		path = "/"
	}

	key := method + " " + path
	if _, dup := rt.seen[key]; dup {
		panic(fmt.Sprintf("router: duplicate route %s", key))
	}
	rt.seen[key] = struct{}{}

	rt.mux.Method(method, path, def.pipeline(shared, rt.errorHandler, rt.maxBodySize))
	rt.routes = append(rt.routes, RouteInfo{Method: method, Path: path})

	rt.logger.Debug("route registered",
		logger.Component("router"),
		slog.String("method", method),
		slog.String("path", path),
	)
}

func (rt *Router) fallback(err error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler(handler.NewContext(w, r), err)
	}
}

func (rt *Router) mustNotBeFrozen() {
	if rt.frozen.Load() {
		panic("router: routes cannot be changed after serving has started")
	}
}

// JoinPath joins a prefix and a path. An empty or "/" prefix is dropped;
// otherwise the two are concatenated as-is.
func JoinPath(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	return prefix + path
}
