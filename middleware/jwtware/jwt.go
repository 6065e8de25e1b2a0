package jwtware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-intranet-auth"
)

// DefaultParam is the route parameter holding the target user id
const DefaultParam = "id"

// TokenDecoder decodes a presented token into claims.
// *auth.TokenService satisfies it.
type TokenDecoder interface {
	Decode(tokenString string) (*auth.Claims, error)
}

// ValidationListener is invoked after a token has been validated but
// before the request proceeds.
type ValidationListener func(c *fiber.Ctx, claims *auth.Claims) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	// ErrorHandler receives every rejection. The default returns the error
	// so the app error handler renders the envelope.
	ErrorHandler fiber.ErrorHandler
	// TokenDecoder is required for token validation
	TokenDecoder TokenDecoder
	// ContextKey is the fiber locals key for claims. Defaults to "user".
	ContextKey string
	// Param is the route parameter that RequireOwnerOrAdmin compares against
	Param string
	// ContextEnricher propagates claims to the standard Go context.
	// Defaults to auth.WithClaimsContext.
	ContextEnricher func(c context.Context, claims *auth.Claims) context.Context
	// ValidationListeners run after a token decodes successfully
	ValidationListeners []ValidationListener
}

// New returns the Authenticate gate: a request without a decodable bearer
// token is rejected and does not reach later handlers.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		claims, err := cfg.authenticate(c)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		cfg.attach(c, claims)
		return cfg.SuccessHandler(c)
	}
}

// Optional attempts authentication and always proceeds. On failure any
// previous claims are cleared and the request continues anonymous.
func Optional(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		claims, err := cfg.authenticate(c)
		if err != nil {
			cfg.clear(c)
			return c.Next()
		}
		cfg.attach(c, claims)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose claims are absent or not ADMIN
func RequireAdmin(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c, cfg.ContextKey)
		if err := auth.AuthorizeAdmin(claims); err != nil {
			return cfg.ErrorHandler(c, err)
		}
		return c.Next()
	}
}

// RequireOwnerOrAdmin parses the target id from the route and admits the
// record owner or any ADMIN. A non integer id is rejected before the
// ownership check.
func RequireOwnerOrAdmin(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c, cfg.ContextKey)
		if _, err := auth.AuthorizeOwnerOrAdmin(claims, c.Params(cfg.Param)); err != nil {
			return cfg.ErrorHandler(c, err)
		}
		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by New or Optional
func ClaimsFromContext(c *fiber.Ctx, key string) (*auth.Claims, bool) {
	if key == "" {
		key = auth.DefaultContextKey
	}
	claims, ok := c.Locals(key).(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ *fiber.Ctx, err error) error {
			return err
		}
	}

	if cfg.TokenDecoder == nil {
		panic("AUTH: JWT middleware configuration: TokenDecoder is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.DefaultContextKey
	}

	if cfg.Param == "" {
		cfg.Param = DefaultParam
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = auth.WithClaimsContext
	}

	return cfg
}

func (cfg *Config) authenticate(c *fiber.Ctx) (*auth.Claims, error) {
	raw, err := auth.ExtractBearer(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, err
	}

	claims, err := cfg.TokenDecoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	if err := cfg.runValidationListeners(c, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (cfg *Config) attach(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals(cfg.ContextKey, claims)
	c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
}

func (cfg *Config) clear(c *fiber.Ctx) {
	c.Locals(cfg.ContextKey, nil)
	c.SetUserContext(cfg.ContextEnricher(c.UserContext(), nil))
}

func (cfg *Config) runValidationListeners(c *fiber.Ctx, claims *auth.Claims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, claims); err != nil {
			return err
		}
	}
	return nil
}
