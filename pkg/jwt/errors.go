package jwt

import "errors"

var (
	ErrInvalidToken            = errors.New("jwt: invalid token")
	ErrExpiredToken            = errors.New("jwt: token is expired")
	ErrMalformedToken          = errors.New("jwt: malformed token")
	ErrMissingSigningKey       = errors.New("jwt: missing signing key")
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
	ErrMissingToken            = errors.New("jwt: missing token")
	ErrMultipleTokens          = errors.New("jwt: multiple token values")
)
