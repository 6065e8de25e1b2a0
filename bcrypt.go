package auth

import (
	"unicode/utf8"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit
const maxPasswordBytes = 72

// BcryptHasher implements PasswordAuthenticator with a fixed work factor
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. A cost outside
// the bcrypt range falls back to the build default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor
func (b *BcryptHasher) Cost() int {
	return b.cost
}

// HashPassword will generate a salted password hash
func (b *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if !utf8.ValidString(password) || len(password) > maxPasswordBytes {
		return "", ErrInvalidPasswordEncoding
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// a hash that is not a bcrypt hash is (false, ErrInvalidPasswordHash).
func (b *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := ComparePasswordAndHash(password, hash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// HashPassword hashes with the default cost
func HashPassword(password string) (string, error) {
	return NewBcryptHasher(passwordHashCost()).HashPassword(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return ErrInvalidPasswordHash
	}
	return nil
}

// RandomPasswordHash hashes a random uuid with the given hasher. The
// result matches no password a client can send.
func RandomPasswordHash(hasher PasswordAuthenticator) string {
	h, err := hasher.HashPassword(uuid.NewString())
	if err != nil {
		return RandomPasswordHash(hasher)
	}
	return h
}
