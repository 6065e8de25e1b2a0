package auth

import (
	"context"
	"time"
)

// Logger is the structured logger used across the package.
// Arguments after the message are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetPasswordCost() int
	GetContextKey() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenCodec mints and decodes signed tokens
type TokenCodec interface {
	Mint(identity Identity) (string, time.Time, error)
	Decode(token string) (*Claims, error)
	TTL() time.Duration
}

// CredentialStore is the narrow storage contract the Authenticator needs.
type CredentialStore interface {
	FindCredentialByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// UserRepository is the full storage contract for user records.
// Lookups that match no record return ErrUserNotFound.
type UserRepository interface {
	CredentialStore
	FindByID(ctx context.Context, id int64) (*User, error)
	FindActiveByID(ctx context.Context, id int64) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	SearchByName(ctx context.Context, name string, opts ListOptions) ([]*User, error)
	List(ctx context.Context, opts ListOptions) ([]*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// ListOptions paginates and filters user listings
type ListOptions struct {
	Skip  int
	Limit int
	Name  string
}

const (
	// DefaultListLimit is used when ListOptions.Limit is not set
	DefaultListLimit = 100
	// MaxListLimit caps ListOptions.Limit
	MaxListLimit = 100
)

// Normalize clamps pagination values into range
func (o ListOptions) Normalize() ListOptions {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	return o
}
