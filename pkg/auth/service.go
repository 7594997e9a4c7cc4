package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/jwt"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/session"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// SecretGenerator returns a fresh per-session signing secret.
type SecretGenerator func() (string, error)

// Service issues and verifies session-bound access tokens.
// Every token is signed with the secret of its own session, so deleting the
// session invalidates the token.
type Service struct {
	store     session.Store
	ttl       time.Duration
	sign      jwt.SignOptions
	verify    jwt.VerifyOptions
	newSecret SecretGenerator
	hasher    PasswordHasher
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTokenTTL sets the session lifetime. Non-positive values are ignored.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSignOptions sets the algorithm and registered claims of issued tokens.
func WithSignOptions(o jwt.SignOptions) Option {
	return func(s *Service) {
		s.sign = o
	}
}

// WithVerifyOptions sets claim validation rules. When Algorithms is empty the
// signing algorithm is the only one accepted.
func WithVerifyOptions(o jwt.VerifyOptions) Option {
	return func(s *Service) {
		s.verify = o
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSecretGenerator replaces the session secret source.
func WithSecretGenerator(fn SecretGenerator) Option {
	return func(s *Service) {
		if fn != nil {
			s.newSecret = fn
		}
	}
}

// WithPasswordHasher sets the hasher used by Login and Register.
func WithPasswordHasher(h PasswordHasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// NewService creates a token service backed by store. It panics on a nil store.
func NewService(store session.Store, opts ...Option) *Service {
	if store == nil {
		panic("auth: session store is required")
	}
	s := &Service{
		store:     store,
		ttl:       DefaultTokenTTL,
		newSecret: randomSecret,
		hasher:    BcryptHasher{},
		log:       logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if h, ok := s.hasher.(BcryptHasher); ok && h.Logger == nil {
		h.Logger = s.log
		s.hasher = h
	}
	if len(s.verify.Algorithms) == 0 {
		alg := s.sign.Algorithm
		if alg == "" {
			alg = jwt.DefaultAlgorithm
		}
		s.verify.Algorithms = []string{alg}
	}
	return s
}

// Hasher returns the configured password hasher.
func (s *Service) Hasher() PasswordHasher {
	return s.hasher
}

// GenerateToken opens a new session for principalID and returns a token bound to it.
func (s *Service) GenerateToken(ctx context.Context, principalID string) (string, error) {
	if strings.TrimSpace(principalID) == "" {
		return "", ErrEmptyPrincipal
	}

	secret, err := s.newSecret()
	if err != nil {
		return "", errors.Join(errors.New("auth: generate session secret"), err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	sess, err := s.store.Create(ctx, session.CreateParams{
		OwnerID:   principalID,
		SecretKey: secret,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", err
	}

	token, err := jwt.Sign(TokenClaims{
		PrincipalID:      principalID,
		SessionID:        sess.ID,
		RegisteredClaims: s.sign.RegisteredClaims(now, expiresAt),
	}, []byte(sess.SecretKey), s.sign)
	if err != nil {
		return "", err
	}

	s.log.DebugContext(ctx, "session opened",
		logger.PrincipalID(principalID),
		logger.SessionID(sess.ID),
		logger.Component("auth"),
	)
	return token, nil
}

// Verify returns the principal id carried by token.
//
// The payload is decoded without verification to find the session, the session
// is loaded from the store, and only then is the signature checked with the
// session's secret. Store errors are returned unchanged.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	v, _, err := s.verifyToken(ctx, token)
	if err != nil {
		return "", err
	}
	return v.principalID, nil
}

// verified is the outcome of a successful verification.
type verified struct {
	principalID string
	sessionID   string
}

// verifyToken runs the decoding, lookup and signature stages and reports the
// stage that failed.
func (s *Service) verifyToken(ctx context.Context, token string) (verified, Stage, error) {
	payload, err := jwt.Decode(token)
	if err != nil {
		return verified{}, StageDecoding, errors.Join(core.ErrMalformedToken, err)
	}
	sessionID, ok := claimString(payload, ClaimSession)
	if !ok {
		return verified{}, StageDecoding, errors.Join(core.ErrMalformedToken, errors.New("auth: token has no session reference"))
	}

	sess, err := s.store.Find(ctx, sessionID)
	if err != nil {
		return verified{}, StageSessionLookup, err
	}

	claims := gojwt.MapClaims{}
	if err := jwt.Verify(token, []byte(sess.SecretKey), claims, s.verify); err != nil {
		return verified{}, StageSignatureVerify, errors.Join(core.ErrInvalidToken, err)
	}

	principalID, ok := claimString(claims, ClaimPrincipal)
	if !ok {
		return verified{}, StageSignatureVerify, errors.Join(core.ErrMalformedToken, errors.New("auth: token has no principal id"))
	}
	return verified{principalID: principalID, sessionID: sess.ID}, StageAuthenticated, nil
}

// Revoke verifies token and deletes its session.
func (s *Service) Revoke(ctx context.Context, token string) error {
	v, _, err := s.verifyToken(ctx, token)
	if err != nil {
		return err
	}
	return s.RevokeSession(ctx, v.sessionID)
}

// RevokeSession deletes a session by id.
func (s *Service) RevokeSession(ctx context.Context, sessionID string) error {
	revoker, ok := s.store.(session.Revoker)
	if !ok {
		return ErrRevokeUnsupported
	}
	if err := revoker.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "session revoked", logger.SessionID(sessionID), logger.Component("auth"))
	return nil
}

// RevokeAll deletes every session of principalID.
func (s *Service) RevokeAll(ctx context.Context, principalID string) error {
	revoker, ok := s.store.(session.OwnerRevoker)
	if !ok {
		return ErrRevokeUnsupported
	}
	if err := revoker.DeleteByOwner(ctx, principalID); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "all sessions revoked", logger.PrincipalID(principalID), logger.Component("auth"))
	return nil
}

func randomSecret() (string, error) {
	return rand.Text(), nil
}
