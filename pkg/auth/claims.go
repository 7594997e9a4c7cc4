package auth

import (
	"strconv"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Payload keys of an access token.
const (
	ClaimPrincipal = "id"
	ClaimSession   = "session"
)

// TokenClaims is the signed payload: {"id": principal, "session": session id}
// plus the registered claims.
type TokenClaims struct {
	PrincipalID string `json:"id"`
	SessionID   string `json:"session"`
	gojwt.RegisteredClaims
}

// claimString reads a string or numeric claim. Tokens minted by other
// services may carry numeric ids.
func claimString(claims gojwt.MapClaims, key string) (string, bool) {
	switch v := claims[key].(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
