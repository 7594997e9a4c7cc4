package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is used when SignOptions.Algorithm is empty.
const DefaultAlgorithm = "HS256"

// SignOptions controls the registered claims and algorithm of issued tokens.
type SignOptions struct {
	Algorithm string        // HS256, HS384 or HS512
	Issuer    string        // iss, omitted when empty
	Audience  []string      // aud, omitted when empty
	NotBefore time.Duration // nbf offset from issue time, zero omits the claim
}

// RegisteredClaims builds the standard claims for a token issued at now.
func (o SignOptions) RegisteredClaims(now, expiresAt time.Time) gojwt.RegisteredClaims {
	rc := gojwt.RegisteredClaims{
		Issuer:    o.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(expiresAt),
	}
	if len(o.Audience) > 0 {
		rc.Audience = gojwt.ClaimStrings(o.Audience)
	}
	if o.NotBefore > 0 {
		rc.NotBefore = gojwt.NewNumericDate(now.Add(o.NotBefore))
	}
	return rc
}

// VerifyOptions controls signature and claim validation.
type VerifyOptions struct {
	Algorithms []string      // accepted algorithms, defaults to HS256
	Issuer     string        // required iss when set
	Audience   string        // required aud when set
	Leeway     time.Duration // clock skew tolerance for exp, nbf and iat
}

func (o VerifyOptions) parserOptions() []gojwt.ParserOption {
	algs := o.Algorithms
	if len(algs) == 0 {
		algs = []string{DefaultAlgorithm}
	}
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods(algs),
		gojwt.WithIssuedAt(),
	}
	if o.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(o.Issuer))
	}
	if o.Audience != "" {
		opts = append(opts, gojwt.WithAudience(o.Audience))
	}
	if o.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(o.Leeway))
	}
	return opts
}

func signingMethod(alg string) (gojwt.SigningMethod, error) {
	if alg == "" {
		alg = DefaultAlgorithm
	}
	switch alg {
	case "HS256", "HS384", "HS512":
		return gojwt.GetSigningMethod(alg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedSigningMethod, alg)
	}
}

// Sign encodes claims and signs them with secret.
func Sign(claims gojwt.Claims, secret []byte, opts SignOptions) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSigningKey
	}
	method, err := signingMethod(opts.Algorithm)
	if err != nil {
		return "", err
	}
	token, err := gojwt.NewWithClaims(method, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return token, nil
}

// Decode parses the payload without verifying the signature.
// Use it only to learn which key verifies the token.
func Decode(token string) (gojwt.MapClaims, error) {
	claims := gojwt.MapClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// Verify checks the signature and registered claims of token and decodes the
// payload into claims.
func Verify(token string, secret []byte, claims gojwt.Claims, opts VerifyOptions) error {
	if len(secret) == 0 {
		return ErrMissingSigningKey
	}

	parsed, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return secret, nil
	}, opts.parserOptions()...)
	if err != nil {
		switch {
		case errors.Is(err, gojwt.ErrTokenExpired):
			return ErrExpiredToken
		case errors.Is(err, gojwt.ErrTokenMalformed):
			return fmt.Errorf("%w: %v", ErrMalformedToken, err)
		default:
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
