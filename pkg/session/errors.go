package session

import "errors"

var (
	// ErrInvalidSession indicates incomplete session parameters
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")
)
