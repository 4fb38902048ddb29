// Package auth is the identity provider: user registration, JWT login
// and per-request identity resolution. The link core only ever sees an
// optional uuid identity.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned when registering an already-known email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for unparseable, forged or expired
	// bearer tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore abstracts durable user storage.
type UserStore interface {
	// Insert persists a new user. Returns ErrEmailTaken when the email
	// is already registered.
	Insert(ctx context.Context, user *User) error

	// GetByEmail returns the user for an email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
