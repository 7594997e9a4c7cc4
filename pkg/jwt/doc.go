// Package jwt signs and verifies HMAC JSON Web Tokens.
//
// It is a thin layer over github.com/golang-jwt/jwt/v5 that fixes the accepted
// algorithms, maps library errors onto package sentinels and provides request
// extractors for the Authorization header, custom headers and cookies.
//
// Tokens are signed per session, so the key is passed to every call instead of
// being held by a service:
//
//	claims := MyClaims{UserID: id, RegisteredClaims: opts.RegisteredClaims(now, exp)}
//	token, err := jwt.Sign(claims, secret, opts)
//
//	payload, err := jwt.Decode(token) // unverified, to find the key
//	err = jwt.Verify(token, secret, &MyClaims{}, jwt.VerifyOptions{Issuer: "api"})
package jwt
