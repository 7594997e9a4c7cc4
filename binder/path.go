package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PathParams returns the route parameters chi matched for this request.
// Requests not routed through chi yield an empty map.
//
// Example:
//
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//		params := binder.PathParams(r) // {"id": "42"}
//	})
func PathParams(r *http.Request) map[string]any {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[key] = rctx.URLParams.Values[i]
	}
	return out
}
