package auth

import "strings"

// BearerScheme is the only accepted Authorization scheme
const BearerScheme = "Bearer"

const bearerPrefix = BearerScheme + " "

// ExtractBearer returns the remainder of an Authorization header value
// after the literal "Bearer " prefix. An empty value is
// ErrMissingAuthHeader; a value without the exact prefix is
// ErrInvalidAuthScheme; the prefix followed by nothing is ErrTokenMalformed.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthScheme
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", ErrTokenMalformed
	}
	return token, nil
}
