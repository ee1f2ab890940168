package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/http/middleware"
	"expirytracker/internal/reminder"
	"expirytracker/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors maps sentinel errors to responses. The sentinel's own text is the message.
var serviceErrors = []errorMapping{
	{service.ErrUserRequired, fiber.StatusBadRequest, "INVALID_USER"},
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID"},
	{service.ErrNameRequired, fiber.StatusBadRequest, "NAME_REQUIRED"},
	{service.ErrTypeRequired, fiber.StatusBadRequest, "TYPE_REQUIRED"},
	{service.ErrInvalidExpiry, fiber.StatusBadRequest, "INVALID_EXPIRY_DATE"},
	{service.ErrInvalidIssue, fiber.StatusBadRequest, "INVALID_ISSUE_DATE"},
	{service.ErrInvalidFilter, fiber.StatusBadRequest, "INVALID_FILTER"},
	{service.ErrInvalidDay, fiber.StatusBadRequest, "INVALID_DAY"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrNotificationNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrExportNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrSearchDisabled, fiber.StatusServiceUnavailable, "SEARCH_DISABLED"},
	{service.ErrStorageDisabled, fiber.StatusServiceUnavailable, "STORAGE_DISABLED"},
	{reminder.ErrLedgerUnavailable, fiber.StatusServiceUnavailable, "LEDGER_UNAVAILABLE"},
}

// writeServiceError translates a service error; anything unrecognised becomes a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
