package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc defines a function that extracts a token from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor extracts tokens from "Authorization: Bearer <token>" headers.
// Any other scheme is treated as a missing token.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// HeaderTokenExtractor creates a token extractor for a custom header carrying the raw token.
// The header must appear exactly once.
func HeaderTokenExtractor(headerName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		values := r.Header.Values(headerName)
		switch len(values) {
		case 0:
			return "", ErrMissingToken
		case 1:
			token := strings.TrimSpace(values[0])
			if token == "" {
				return "", ErrMissingToken
			}
			return token, nil
		default:
			return "", ErrMultipleTokens
		}
	}
}

// CookieTokenExtractor creates a token extractor for cookie-based transport.
func CookieTokenExtractor(cookieName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return "", ErrMissingToken
		}
		return cookie.Value, nil
	}
}
