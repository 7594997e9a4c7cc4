package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the default request id header.
const Header = "X-Request-ID"

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Option configures New.
type Option func(*middleware)

type middleware struct {
	header   string
	generate func() string
}

// WithHeader reads and echoes the id in a header other than X-Request-ID.
func WithHeader(name string) Option {
	return func(m *middleware) {
		if name != "" {
			m.header = http.CanonicalHeaderKey(name)
		}
	}
}

// WithGenerator replaces the UUID generator.
func WithGenerator(fn func() string) Option {
	return func(m *middleware) {
		if fn != nil {
			m.generate = fn
		}
	}
}

// New returns middleware that reuses a well-formed incoming request id or
// generates one, stores it in the request context and echoes it in the response.
func New(opts ...Option) func(http.Handler) http.Handler {
	m := &middleware{header: Header, generate: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(m.header)
			if !IsValid(id) {
				id = m.generate()
			}
			w.Header().Set(m.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

// Middleware is New with default options.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

// IsValid reports whether id is 1 to 128 characters of letters, digits, '-' or '_'.
func IsValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
