package auth

import (
	"context"
)

// DefaultContextKey is the fiber locals key claims are stored under
const DefaultContextKey = "user"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the Claims in the given context
func WithClaimsContext(r context.Context, claims *Claims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the Claims from the standard context. A nil ctx or a
// context without claims is anonymous.
func GetClaims(ctx context.Context) (*Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}
