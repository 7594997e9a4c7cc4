package binder

import (
	"net/http"
	"net/url"
)

// Query returns the query string as a generic map.
//
//	?page=2&tag=go&tag=web  =>  {"page": "2", "tag": []string{"go", "web"}}
func Query(r *http.Request) map[string]any {
	return Values(r.URL.Query())
}

// Values flattens url.Values: one value becomes a string, several become []string.
func Values(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
			continue
		case 1:
			out[key] = vals[0]
		default:
			out[key] = append([]string(nil), vals...)
		}
	}
	return out
}
