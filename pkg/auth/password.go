package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/logger"
)

// DefaultBcryptCost is used by BcryptHasher when Cost is zero.
const DefaultBcryptCost = 12

// Credentials is a stored account that can log in with a password.
// Implementations should tag the hash field `json:"-"` so it never reaches a response.
type Credentials interface {
	CredentialID() string
	CredentialHash() string
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare reports whether password matches hash. A mismatch is not an error.
	Compare(hash, password string) (bool, error)
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher is the default PasswordHasher.
// Logger receives unreadable stored hashes; nil discards them.
type BcryptHasher struct {
	Cost   int
	Logger *slog.Logger
}

// Hash rejects passwords longer than MaxPasswordBytes with a 422.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", errors.Join(
			core.UnprocessableEntity(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes)),
			err,
		)
	case err != nil:
		return "", errors.Join(errors.New("auth: hash password"), err)
	}
	return string(hash), nil
}

// Compare treats a stored hash bcrypt cannot read as a mismatch.
func (h BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		if h.Logger != nil {
			h.Logger.Warn("stored password hash is unreadable", logger.Error(err), logger.Component("auth"))
		}
		return false, nil
	}
}

// Result is a record paired with a freshly issued access token.
//
// It marshals as the record's own JSON object with an "accessToken" member
// added. Records that are not JSON objects are nested under "record".
type Result[T any] struct {
	Record      T
	AccessToken string
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Record)
	if err != nil {
		return nil, err
	}
	token, err := json.Marshal(r.AccessToken)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if len(raw) == 0 || raw[0] != '{' || json.Unmarshal(raw, &fields) != nil {
		fields = map[string]json.RawMessage{"record": raw}
	}
	fields["accessToken"] = token
	return json.Marshal(fields)
}

// FindFunc loads credentials by login identifier (email, username).
// It must return an error wrapping ErrCredentialsNotFound when nothing matches.
type FindFunc[T Credentials] func(ctx context.Context, identifier string) (T, error)

// CreateFunc persists a new account from data and the password hash.
type CreateFunc[T Credentials, D any] func(ctx context.Context, data D, passwordHash string) (T, error)

// MatchFunc reports whether password matches hash.
type MatchFunc func(password, hash string) (bool, error)

// HashFunc hashes a password.
type HashFunc func(password string) (string, error)

// LoginOption configures a single Login call.
type LoginOption func(*loginConfig)

type loginConfig struct {
	match MatchFunc
}

// WithMatcher overrides the service's hasher for one login.
func WithMatcher(fn MatchFunc) LoginOption {
	return func(c *loginConfig) {
		if fn != nil {
			c.match = fn
		}
	}
}

// Login checks a password against the record found for identifier and issues a token.
// An unknown identifier and a wrong password both fail with core.ErrInvalidCredentials.
func Login[T Credentials](ctx context.Context, svc *Service, find FindFunc[T], identifier, password string, opts ...LoginOption) (Result[T], error) {
	cfg := &loginConfig{
		match: func(password, hash string) (bool, error) { return svc.hasher.Compare(hash, password) },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	record, err := find(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return Result[T]{}, core.ErrInvalidCredentials
		}
		return Result[T]{}, err
	}

	if password == "" {
		return Result[T]{}, core.ErrInvalidCredentials
	}
	ok, err := cfg.match(password, record.CredentialHash())
	if err != nil {
		return Result[T]{}, err
	}
	if !ok {
		return Result[T]{}, core.ErrInvalidCredentials
	}

	token, err := svc.GenerateToken(ctx, record.CredentialID())
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Record: record, AccessToken: token}, nil
}

// RegisterOption configures a single Register call.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	hash HashFunc
}

// WithHashFunc overrides the service's hasher for one registration.
func WithHashFunc(fn HashFunc) RegisterOption {
	return func(c *registerConfig) {
		if fn != nil {
			c.hash = fn
		}
	}
}

// Register hashes password, creates the account and issues a token for it.
// Errors from create, such as constraint violations, are returned unchanged.
func Register[T Credentials, D any](ctx context.Context, svc *Service, create CreateFunc[T, D], data D, password string, opts ...RegisterOption) (Result[T], error) {
	cfg := &registerConfig{hash: svc.hasher.Hash}
	for _, opt := range opts {
		opt(cfg)
	}

	if password == "" {
		return Result[T]{}, ErrEmptyPassword
	}
	hash, err := cfg.hash(password)
	if err != nil {
		return Result[T]{}, err
	}

	record, err := create(ctx, data, hash)
	if err != nil {
		return Result[T]{}, err
	}

	token, err := svc.GenerateToken(ctx, record.CredentialID())
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Record: record, AccessToken: token}, nil
}
