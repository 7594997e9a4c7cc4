package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/apikit/pkg/auth"
)

// ErrUserNotFound is returned by Storage lookups. It satisfies
// errors.Is(err, auth.ErrCredentialsNotFound) so Login reports invalid credentials.
var ErrUserNotFound = fmt.Errorf("account: user not found: %w", auth.ErrCredentialsNotFound)

var ErrNilStorage = errors.New("account: storage is required")

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) CredentialID() string   { return u.ID }
func (u User) CredentialHash() string { return u.PasswordHash }

// NewUser is the data a client supplies when signing up.
type NewUser struct {
	Email string
	Name  string
}

// Storage persists users.
type Storage interface {
	CreateUser(ctx context.Context, u NewUser, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}
