package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// Error kinds. Every error returned to a handler is matched against these
// with errors.Is to choose the status code.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
)

// AppError carries a human-readable detail for one error kind.
type AppError struct {
	Kind   error
	Detail string
}

func NewError(kind error, detail string) *AppError {
	return &AppError{Kind: kind, Detail: detail}
}

func (e *AppError) Error() string { return e.Detail }

func (e *AppError) Is(target error) bool { return target == e.Kind }

// Errorf builds an AppError with a formatted detail.
func Errorf(kind error, format string, args ...interface{}) *AppError {
	return NewError(kind, fmt.Sprintf(format, args...))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler maps handler errors to JSON responses. Unknown errors are
// logged, reported and hidden behind a generic 500.
func NewErrorHandler(logger *Logger, reporter *Reporter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		var fiberErr *fiber.Error
		var verrs validator.ValidationErrors

		switch {
		case errors.As(err, &verrs):
			return ValidationError(c, ValidationFields(verrs))
		case errors.As(err, &appErr):
			return Error(c, statusFor(appErr), appErr.Detail)
		case errors.As(err, &fiberErr):
			return Error(c, fiberErr.Code, fiberErr.Message)
		}

		logger.Error("unhandled error",
			"method", c.Method(),
			"path", c.Path(),
			"error", fmt.Sprintf("%+v", err),
		)
		reporter.Error(err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
		return Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
