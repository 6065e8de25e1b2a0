package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"go.uber.org/zap"

	auth "github.com/goliatone/go-intranet-auth"
	"github.com/goliatone/go-intranet-auth/middleware/jwtware"
)

type AuthControllerRoutes struct {
	Health   string
	Register string
	Login    string
}

// AuthController serves the public routes
type AuthController struct {
	AppName    string
	Auther     *auth.Auther
	ContextKey string
	Logger     *zap.Logger
	Routes     *AuthControllerRoutes
	now        func() time.Time
}

type AuthControllerOption func(*AuthController)

// WithControllerClock replaces the health timestamp source
func WithControllerClock(now func() time.Time) AuthControllerOption {
	return func(a *AuthController) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAuthController(auther *auth.Auther, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Auther:     auther,
		ContextKey: auth.DefaultContextKey,
		Logger:     zap.NewNop(),
		Routes: &AuthControllerRoutes{
			Health:   "/health",
			Register: "/auth/register",
			Login:    "/auth/login",
		},
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (a *AuthController) Health(c *fiber.Ctx) error {
	res := HealthResponse{
		Status:    "healthy",
		Timestamp: a.now().UTC().Format(time.RFC3339),
		AppName:   a.AppName,
	}
	if claims, ok := jwtware.ClaimsFromContext(c, a.ContextKey); ok {
		id := claims.UserID()
		res.Authenticated = true
		res.UserID = &id
	}
	return c.JSON(res)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("register parse payload", zap.Error(err))
		return ErrMalformedBody
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	user, err := a.Auther.Register(c.UserContext(), payload.message())
	if err != nil {
		return err
	}

	a.Logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("request_id", requestID(c)))
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("login parse payload", zap.Error(err))
		return ErrMalformedBody
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	res, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(newLoginResponse(res))
}

type UsersControllerRoutes struct {
	List        string
	Search      string
	Item        string
	AdminDelete string
}

// UsersController serves the authenticated user routes
type UsersController struct {
	Users      *auth.UserService
	ContextKey string
	Logger     *zap.Logger
	Routes     *UsersControllerRoutes
}

func NewUsersController(users *auth.UserService) *UsersController {
	return &UsersController{
		Users:      users,
		ContextKey: auth.DefaultContextKey,
		Logger:     zap.NewNop(),
		Routes: &UsersControllerRoutes{
			List:        "/users",
			Search:      "/users/search",
			Item:        "/users/:" + jwtware.DefaultParam,
			AdminDelete: "/admin/users/:" + jwtware.DefaultParam,
		},
	}
}

func (u *UsersController) List(c *fiber.Ctx) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}

	records, err := u.Users.List(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return c.JSON(auth.ToResponses(records))
}

func (u *UsersController) Search(c *fiber.Ctx) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}

	records, err := u.Users.Search(c.UserContext(), c.Query("name"), opts)
	if err != nil {
		return err
	}
	return c.JSON(auth.ToResponses(records))
}

func (u *UsersController) Get(c *fiber.Ctx) error {
	id, err := auth.ParseUserID(c.Params(jwtware.DefaultParam))
	if err != nil {
		return err
	}

	user, err := u.Users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user.ToResponse())
}

func (u *UsersController) Update(c *fiber.Ctx) error {
	id, err := auth.ParseUserID(c.Params(jwtware.DefaultParam))
	if err != nil {
		return err
	}

	payload := new(UpdatePayload)
	if err := c.BodyParser(payload); err != nil {
		u.Logger.Debug("update parse payload", zap.Error(err))
		return ErrMalformedBody
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	claims, _ := jwtware.ClaimsFromContext(c, u.ContextKey)
	user, err := u.Users.Update(c.UserContext(), claims, id, payload.message())
	if err != nil {
		return err
	}
	return c.JSON(user.ToResponse())
}

func (u *UsersController) Delete(c *fiber.Ctx) error {
	id, err := auth.ParseUserID(c.Params(jwtware.DefaultParam))
	if err != nil {
		return err
	}

	claims, _ := jwtware.ClaimsFromContext(c, u.ContextKey)
	if err := u.Users.Delete(c.UserContext(), claims, id); err != nil {
		return err
	}

	return c.JSON(SuccessResponse{
		Success: true,
		Message: "user deleted",
	})
}

func listOptions(c *fiber.Ctx) (auth.ListOptions, error) {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", auth.DefaultListLimit)
	if skip < 0 || limit < 0 {
		return auth.ListOptions{}, errors.New("skip and limit must not be negative", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}
	return auth.ListOptions{
		Skip:  skip,
		Limit: limit,
		Name:  c.Query("name"),
	}.Normalize(), nil
}
