package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	auth "github.com/goliatone/go-intranet-auth"
	"github.com/goliatone/go-intranet-auth/middleware/jwtware"
)

// Options configures the HTTP application
type Options struct {
	AppName      string
	Development  bool
	AllowOrigins []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ContextKey   string
	Logger       *zap.Logger
	Auther       *auth.Auther
	Users        *auth.UserService
}

// New builds the fiber app with middleware and every route mounted
func New(opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ContextKey == "" {
		opts.ContextKey = auth.DefaultContextKey
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          NewErrorHandler(opts.Logger, opts.Development),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: opts.Development}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(opts.AllowOrigins),
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderAuthorization,
		}, ","),
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodOptions,
		}, ","),
	}))
	app.Use(RequestLogger(opts.Logger))

	RegisterRoutes(app, opts)

	return app
}

// RegisterRoutes mounts the public, authenticated and admin routes
func RegisterRoutes(app fiber.Router, opts Options) {
	gate := jwtware.Config{
		TokenDecoder: opts.Auther.TokenService(),
		ContextKey:   opts.ContextKey,
	}

	authController := NewAuthController(opts.Auther)
	authController.AppName = opts.AppName
	authController.ContextKey = opts.ContextKey
	authController.Logger = opts.Logger

	users := NewUsersController(opts.Users)
	users.ContextKey = opts.ContextKey
	users.Logger = opts.Logger

	app.Get(authController.Routes.Health, jwtware.Optional(gate), authController.Health)
	app.Post(authController.Routes.Register, authController.Register)
	app.Post(authController.Routes.Login, authController.Login)

	authenticate := jwtware.New(gate)

	app.Get(users.Routes.List, authenticate, users.List)
	app.Get(users.Routes.Search, authenticate, users.Search)
	app.Get(users.Routes.Item, authenticate, users.Get)
	app.Put(users.Routes.Item, authenticate, jwtware.RequireOwnerOrAdmin(gate), users.Update)
	app.Delete(users.Routes.AdminDelete, authenticate, jwtware.RequireAdmin(gate), users.Delete)
}

func corsOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
