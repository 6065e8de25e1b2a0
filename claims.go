package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the snapshot of a user embedded into a token at mint time
type Identity struct {
	UserID int64    `json:"userId"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

// Claims is the JWT payload. Registered claims carry iss, sub, iat and exp;
// the private claims carry the identity snapshot.
type Claims struct {
	jwt.RegisteredClaims
	UID      int64    `json:"userId"`
	Email    string   `json:"email"`
	UserRole UserRole `json:"role"`
}

// UserID returns the user ID
func (c *Claims) UserID() int64 {
	return c.UID
}

// Role returns the global role
func (c *Claims) Role() UserRole {
	return c.UserRole
}

// IsAdmin reports whether the token was minted for an ADMIN
func (c *Claims) IsAdmin() bool {
	return c.UserRole.IsAdmin()
}

// Identity returns the identity snapshot carried by the token
func (c *Claims) Identity() Identity {
	return Identity{
		UserID: c.UID,
		Email:  c.Email,
		Role:   c.UserRole,
	}
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// wellFormed checks the private claims agree with each other
func (c *Claims) wellFormed() bool {
	if c.UID <= 0 || c.Email == "" {
		return false
	}
	if !c.UserRole.IsValid() {
		return false
	}
	return c.Subject == strconv.FormatInt(c.UID, 10)
}
