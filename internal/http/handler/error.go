package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docportal/internal/http/middleware"
	"docportal/internal/service"
)

// envelope is the body of every JSON response. Errors also carry code and request_id.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// requestError is a client mistake detected in the handler before calling a service.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{code: code, message: message}
}

func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: true, Message: message})
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(envelope{
		Message:   message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// ErrorHandler returns a Fiber global error handler that maps service and
// framework errors onto the response envelope. Unmapped errors are logged and
// reported as INTERNAL_ERROR.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	l := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx, err error) error {
		var (
			reqErr *requestError
			valErr *service.ValidationError
			vErrs  validator.ValidationErrors
			fe     *fiber.Error
		)

		switch {
		case errors.As(err, &reqErr):
			return writeError(c, fiber.StatusBadRequest, reqErr.code, reqErr.message)
		case errors.As(err, &valErr):
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", valErr.Error())
		case errors.As(err, &vErrs):
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", describe(vErrs))
		case errors.Is(err, service.ErrInvalidCredentials):
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		case errors.Is(err, service.ErrForbidden):
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "forbidden")
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		case errors.Is(err, service.ErrAlreadyCompleted):
			return writeError(c, fiber.StatusConflict, "CONFLICT", "request already completed")
		case errors.Is(err, service.ErrConflict):
			return writeError(c, fiber.StatusConflict, "CONFLICT", "resource already exists")
		case errors.As(err, &fe):
			return writeError(c, fe.Code, fiberCode(fe.Code), fe.Message)
		}

		l.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// describe renders the first failed rule as "<field> <reason>".
func describe(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	}
	return field + " is invalid"
}
