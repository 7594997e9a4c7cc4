package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders are consulted in order before falling back to RemoteAddr.
// X-Forwarded-For may hold a list; its first valid address wins.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// FromRequest returns the client address, or "" when none is valid.
// Only trust forwarding headers when the service runs behind a proxy that sets them.
func FromRequest(r *http.Request, headers ...string) string {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware resolves the client address once per request.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), FromRequest(r, headers...))))
		})
	}
}

// LoggerExtractor adds the client address under "client_ip".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
