package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"hotelapi/internal/http/middleware"
	"hotelapi/internal/service"
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

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response. message must be safe to show callers.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// inputError is a request validation failure reported as 400 with its own code.
type inputError struct {
	code    string
	message string
}

func (e *inputError) Error() string { return e.message }

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: specific not-found errors are matched before service.ErrNotFound.
var serviceErrors = []errorMapping{
	{service.ErrRoomNotFound, fiber.StatusNotFound, "ROOM_NOT_FOUND", "room not found"},
	{service.ErrEmployeeNotFound, fiber.StatusNotFound, "EMPLOYEE_NOT_FOUND", "employee not found"},
	{service.ErrCleaningNotFound, fiber.StatusNotFound, "CLEANING_NOT_FOUND", "no cleaning scheduled for room"},
	{service.ErrReportNotFound, fiber.StatusNotFound, "REPORT_NOT_FOUND", "report not found"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "employee is not allowed to clean rooms"},
	{service.ErrAlreadyScheduled, fiber.StatusConflict, "ALREADY_SCHEDULED", "room already has a scheduled cleaning"},
	{service.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "room cleaning status does not allow this action"},
	{service.ErrInvalidPriority, fiber.StatusBadRequest, "INVALID_PRIORITY", "priority must not be negative"},
	{service.ErrInvalidPage, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page or size"},
	{service.ErrInvalidReportName, fiber.StatusBadRequest, "INVALID_REPORT_NAME", "invalid report name"},
}

// writeServiceError maps a service error onto the envelope. Unknown errors are logged and
// reported as INTERNAL_ERROR without their message.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ie *inputError
	if errors.As(err, &ie) {
		return writeError(c, fiber.StatusBadRequest, ie.code, ie.message)
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.message)
		}
	}
	zerolog.Ctx(c.UserContext()).Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			if status >= fiber.StatusInternalServerError {
				zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			}
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
