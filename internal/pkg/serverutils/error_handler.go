package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HTTPError is a domain error already mapped to a status code.
type HTTPError struct {
	Code    int
	Message string
	Data    any
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

// ErrorHandlerMiddleware turns errors returned by handlers into BaseResponse bodies.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var (
			httpErr  *HTTPError
			validErr *ValidationError
			fiberErr *fiber.Error
		)
		switch {
		case errors.As(err, &httpErr):
			return ctx.Status(httpErr.Code).JSON(ErrorResponseWithData(httpErr.Code, httpErr.Message, httpErr.Data))
		case errors.As(err, &validErr):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponseWithData(fiber.StatusBadRequest, "Invalid request", validErr.Fields))
		case errors.As(err, &fiberErr):
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
		}
	}
}
