package api

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"

	auth "github.com/goliatone/go-intranet-auth"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	maxNameLength     = 50
)

var roleRule = validation.In(string(auth.RoleUser), string(auth.RoleAdmin)).
	Error("must be USER or ADMIN")

// RegisterPayload is the registration request body
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordBytes)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Role, roleRule),
	)
}

func (r RegisterPayload) message() auth.RegisterUserMessage {
	return auth.RegisterUserMessage{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdatePayload is the user update request body. Absent fields are kept.
type UpdatePayload struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// Validate will validate the payload
func (r UpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(minPasswordLength, maxPasswordBytes)),
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLength)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, roleRule),
	)
}

func (r UpdatePayload) message() auth.UpdateUserMessage {
	return auth.UpdateUserMessage{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// LoginResponse is the login envelope
type LoginResponse struct {
	AccessToken string             `json:"accessToken"`
	TokenType   string             `json:"tokenType"`
	ExpiresIn   string             `json:"expiresIn"`
	User        *auth.UserResponse `json:"user"`
}

func newLoginResponse(res *auth.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresIn:   strconv.FormatInt(int64(res.ExpiresIn.Seconds()), 10) + "s",
		User:        res.User.ToResponse(),
	}
}

// SuccessResponse acknowledges operations with no resource body
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse reports liveness and the caller's authentication state
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	AppName       string `json:"app_name"`
	Authenticated bool   `json:"authenticated"`
	UserID        *int64 `json:"userId,omitempty"`
}

// validationError converts ozzo field errors into a rich validation error
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
			WithCode(errors.CodeBadRequest)
	}

	metadata := make(map[string]any, len(fieldErrs))
	for field, ferr := range fieldErrs {
		metadata[field] = ferr.Error()
	}

	return errors.New(fieldErrs.Error(), errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode("VALIDATION_FAILED").
		WithMetadata(metadata)
}
