package auth

import "strconv"

// Authorize returns the claims of an authenticated request or
// ErrUnauthenticated when the request is anonymous.
func Authorize(claims *Claims) (*Claims, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// AuthorizeAdmin admits only ADMIN claims. An absent context is forbidden.
func AuthorizeAdmin(claims *Claims) error {
	if claims == nil || !claims.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ParseUserID parses a path id. Anything that is not a base 10 int64 is
// ErrInvalidUserID.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// AuthorizeOwnerOrAdmin parses the target id first, then admits the owner
// of the record or any ADMIN.
func AuthorizeOwnerOrAdmin(claims *Claims, rawID string) (int64, error) {
	id, err := ParseUserID(rawID)
	if err != nil {
		return 0, err
	}
	if claims == nil {
		return id, ErrForbidden
	}
	if claims.IsAdmin() || claims.UserID() == id {
		return id, nil
	}
	return id, ErrForbidden
}
