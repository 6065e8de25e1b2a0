package auth

import (
	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for any failed login. The wording is the
// same for unknown accounts, inactive accounts and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrMissingAuthHeader the request carried no Authorization header
var ErrMissingAuthHeader = errors.New("authorization header is missing", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("MISSING_AUTH_HEADER")

// ErrInvalidAuthScheme the Authorization header does not use the Bearer scheme
var ErrInvalidAuthScheme = errors.New("authorization header must use the Bearer scheme", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_AUTH_SCHEME")

// ErrTokenMalformed token could not be parsed or carries invalid claims
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrTokenSignatureInvalid token signature does not match
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_SIGNATURE_INVALID")

// ErrTokenExpired token is past its expiry
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrUnauthenticated the request has no authorization context
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHENTICATED")

// ErrForbidden authenticated but not allowed
var ErrForbidden = errors.New("insufficient privileges for this operation", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("FORBIDDEN")

// ErrInvalidUserID path id is not an integer
var ErrInvalidUserID = errors.New("user id must be an integer", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_USER_ID")

// ErrUserNotFound no user matches the lookup
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrCannotDeleteSelf an admin tried to delete its own account
var ErrCannotDeleteSelf = errors.New("administrators cannot delete their own account", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("CANNOT_DELETE_SELF")

// ErrEmailTaken registration or update collides with an existing email
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMAIL_TAKEN")

// ErrInvalidRole role is not USER or ADMIN
var ErrInvalidRole = errors.New("role must be USER or ADMIN", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_ROLE")

// ErrNoEmptyString password must not be empty
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// ErrInvalidPasswordEncoding password is not valid UTF-8 or too long to hash
var ErrInvalidPasswordEncoding = errors.New("password must be valid UTF-8 of at most 72 bytes", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_PASSWORD_ENCODING")

// ErrMismatchedHashAndPassword password does not match hash
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("PASSWORD_MISMATCH")

// ErrInvalidPasswordHash stored hash is not a bcrypt hash
var ErrInvalidPasswordHash = errors.New("stored password hash is invalid", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode("INVALID_PASSWORD_HASH")

const textCodeStorageFailure = "STORAGE_FAILURE"

// StorageError wraps a collaborator failure so it surfaces as a 500-class
// error distinct from authentication and authorization rejections.
func StorageError(err error, message string) error {
	if err == nil {
		return nil
	}
	// the cause keeps its own category and code
	storageErr := errors.New(message, errors.CategoryInternal).
		WithCode(errors.CodeInternal).
		WithTextCode(textCodeStorageFailure)
	storageErr.Source = err
	return storageErr
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return HasTextCode(err, ErrTokenExpired.TextCode)
}

// IsMalformedError will check for structurally invalid tokens
func IsMalformedError(err error) bool {
	return HasTextCode(err, ErrTokenMalformed.TextCode)
}

// IsStorageError reports whether err came from StorageError
func IsStorageError(err error) bool {
	return HasTextCode(err, textCodeStorageFailure)
}

// HasTextCode reports whether err is a rich error carrying code
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
