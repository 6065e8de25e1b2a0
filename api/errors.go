package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"go.uber.org/zap"
)

// ErrorResponse is the uniform rejection envelope
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ErrMalformedBody request body is not valid JSON for the route
var ErrMalformedBody = errors.New("request body is malformed", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("MALFORMED_BODY")

// NewErrorHandler renders every error returned by a handler or gate as an
// ErrorResponse. Details of internal errors are hidden unless exposeInternal
// is set.
func NewErrorHandler(logger *zap.Logger, exposeInternal bool) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx, err error) error {
		richErr := classify(err)

		label := categoryLabel(richErr)
		detail := richErr.Message

		fields := []zap.Field{
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", richErr.Code),
			zap.Any("category", richErr.Category),
			zap.String("text_code", richErr.TextCode),
		}
		if len(richErr.Metadata) > 0 {
			fields = append(fields, zap.String("details", print.MaybePrettyJSON(richErr.Metadata)))
		}

		if richErr.Code >= fiber.StatusInternalServerError {
			logger.Error("request failed", append(fields, zap.Error(err))...)
			if !exposeInternal {
				detail = "an internal error occurred"
			}
		} else {
			logger.Debug("request rejected", fields...)
		}

		return c.Status(richErr.Code).JSON(ErrorResponse{
			Error:  label,
			Detail: detail,
		})
	}
}

func classify(err error) *errors.Error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		if richErr.Code == 0 {
			richErr = withDefaultCode(richErr)
		}
		return richErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}

	return errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
		WithCode(errors.CodeInternal)
}

func withDefaultCode(richErr *errors.Error) *errors.Error {
	code := errors.CodeInternal
	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		code = errors.CodeBadRequest
	case errors.CategoryAuth:
		code = errors.CodeUnauthorized
	case errors.CategoryAuthz:
		code = errors.CodeForbidden
	case errors.CategoryNotFound:
		code = errors.CodeNotFound
	case errors.CategoryConflict:
		code = errors.CodeConflict
	}
	return errors.New(richErr.Message, richErr.Category).
		WithCode(code).
		WithTextCode(richErr.TextCode)
}

func fromFiberError(fiberErr *fiber.Error) *errors.Error {
	category := errors.CategoryInternal
	switch {
	case fiberErr.Code == fiber.StatusNotFound:
		category = errors.CategoryNotFound
	case fiberErr.Code == fiber.StatusUnauthorized:
		category = errors.CategoryAuth
	case fiberErr.Code == fiber.StatusForbidden:
		category = errors.CategoryAuthz
	case fiberErr.Code < fiber.StatusInternalServerError:
		category = errors.CategoryBadInput
	}
	return errors.New(fiberErr.Message, category).WithCode(fiberErr.Code)
}

func categoryLabel(richErr *errors.Error) string {
	switch richErr.Category {
	case errors.CategoryValidation:
		return "validation_error"
	case errors.CategoryBadInput:
		return "bad_request"
	case errors.CategoryAuth:
		return "unauthorized"
	case errors.CategoryAuthz:
		return "forbidden"
	case errors.CategoryNotFound:
		return "not_found"
	case errors.CategoryConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}
