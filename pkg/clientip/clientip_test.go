package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/apikit/pkg/clientip"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
		{"cloudflare first", map[string]string{"CF-Connecting-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.1"}, "10.0.0.1:80", "203.0.113.9"},
		{"forwarded list", map[string]string{"X-Forwarded-For": "bogus, 198.51.100.7, 10.0.0.2"}, "10.0.0.1:80", "198.51.100.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.3"}, "10.0.0.1:80", "198.51.100.3"},
		{"invalid header falls back", map[string]string{"X-Real-IP": "not-an-ip"}, "10.0.0.1:80", "10.0.0.1"},
		{"ipv6 normalized", nil, "[2001:0db8::0001]:443", "2001:db8::1"},
		{"nothing valid", nil, "garbage", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r))
		})
	}
}

func TestFromRequest_CustomHeaders(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:80"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	r.Header.Set("Fly-Client-IP", "203.0.113.5")

	assert.Equal(t, "203.0.113.5", clientip.FromRequest(r, "Fly-Client-IP"))
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.44:5555"
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "192.0.2.44", got)

	attr, ok := clientip.LoggerExtractor()(clientip.WithContext(context.Background(), "192.0.2.44"))
	assert.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)

	_, ok = clientip.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
