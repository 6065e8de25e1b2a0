package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenTTL is used when the configured TTL is not positive
const DefaultTokenTTL = 30 * time.Minute

// TokenService mints and decodes HS256 tokens with a process-wide key.
// It holds no mutable state after construction and is safe for
// concurrent use.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	now        func() time.Time
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token signing key is required", errors.CategoryBadInput)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		now:        time.Now,
		logger:     normalizeLogger(logger),
	}, nil
}

// WithClock replaces the time source. Tests use it to step past expiry.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// TTL returns the configured token lifetime
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Mint signs the identity with iat = now and exp = now + TTL. Identical
// identities minted within the same second produce identical tokens.
func (ts *TokenService) Mint(identity Identity) (string, time.Time, error) {
	if identity.UserID <= 0 {
		return "", time.Time{}, errors.New("identity user id is required", errors.CategoryBadInput)
	}
	if !identity.Role.IsValid() {
		return "", time.Time{}, ErrInvalidRole
	}

	issuedAt := ts.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ts.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:      identity.UserID,
		Email:    identity.Email,
		UserRole: identity.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, expiresAt, nil
}

// Decode verifies the signature, then expiry, then extracts the claims.
// The returned error is one of ErrTokenMalformed, ErrTokenSignatureInvalid
// or ErrTokenExpired.
func (ts *TokenService) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token service rejected unexpected signing method", "alg", t.Header["alg"])
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ts.signingKey, nil
	}, opts...)

	if err != nil {
		return nil, classifyTokenError(err)
	}

	if !token.Valid || !claims.wellFormed() {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
