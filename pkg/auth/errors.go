package auth

import "errors"

var (
	// ErrCredentialsNotFound must be returned (or wrapped) by a FindFunc when no
	// record matches the identifier. Login reports it as invalid credentials.
	ErrCredentialsNotFound = errors.New("auth: credentials not found")

	// ErrRevokeUnsupported is returned when the session store cannot delete sessions.
	ErrRevokeUnsupported = errors.New("auth: session store does not support revocation")

	ErrEmptyPrincipal = errors.New("auth: empty principal id")
	ErrEmptyPassword  = errors.New("auth: empty password")
)
