package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc picks the bucket for a request. An empty key skips limiting.
type KeyFunc func(ctx handler.Context) string

// ByClientIP keys requests by caller address.
func ByClientIP(ctx handler.Context) string {
	if ip := clientip.FromContext(ctx); ip != "" {
		return ip
	}
	return clientip.FromRequest(ctx.Request())
}

// ByPrincipal keys requests by authenticated principal. Place it after the auth middleware.
func ByPrincipal(ctx handler.Context) string {
	return ctx.PrincipalID()
}

// ByRoute prefixes keys with the request method and path so routes get separate buckets.
func ByRoute(ctx handler.Context) string {
	r := ctx.Request()
	return r.Method + " " + r.URL.Path
}

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are hashed.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(ctx handler.Context) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(ctx); k != "" {
				parts = append(parts, k)
			}
		}
		key := strings.Join(parts, ":")
		if len(key) > maxKeyLength {
			sum := sha256.Sum256([]byte(key))
			return hex.EncodeToString(sum[:16])
		}
		return key
	}
}

// Middleware rejects requests over the limit with core.ErrTooManyRequests and
// reports the bucket state in X-RateLimit-* headers.
func Middleware(b *Bucket, key KeyFunc) handler.Middleware {
	return func(ctx handler.Context) error {
		k := key(ctx)
		if k == "" {
			return nil
		}

		res, err := b.Allow(ctx, k)
		if err != nil {
			return err
		}

		h := ctx.ResponseWriter().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed() {
			if retry := int(res.RetryAfter().Seconds()); retry > 0 {
				h.Set("Retry-After", strconv.Itoa(retry))
			}
			return core.ErrTooManyRequests.WithDetails("Rate limit exceeded, retry later")
		}
		return nil
	}
}
