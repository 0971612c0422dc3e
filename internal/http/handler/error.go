package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/auth"
	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
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

// successPayload wraps every successful response body.
type successPayload struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeData writes a standardized JSON success response.
func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(successPayload{Success: true, Data: data})
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "CONFLICT")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// errorMapping pins a sentinel error to its HTTP representation.
type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{auth.ErrMissingAuthHeader, fiber.StatusUnauthorized, "UNAUTHORIZED", "Access token required"},
	{auth.ErrBadAuthHeader, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format"},
	{auth.ErrInvalidToken, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token"},
	{auth.ErrRateLimited, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, please try again later"},
	{auth.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE", "Service temporarily unavailable"},

	{service.ErrDataRoomNotFound, fiber.StatusNotFound, "NOT_FOUND", "Data room not found"},
	{service.ErrFolderNotFound, fiber.StatusNotFound, "NOT_FOUND", "Folder not found"},
	{service.ErrFileNotFound, fiber.StatusNotFound, "NOT_FOUND", "File not found"},
	{service.ErrParentNotFound, fiber.StatusNotFound, "NOT_FOUND", "Parent folder not found"},

	{service.ErrFolderNameTaken, fiber.StatusConflict, "CONFLICT", "A folder with this name already exists in this location"},
	{service.ErrFileNameTaken, fiber.StatusConflict, "CONFLICT", "A file with this name already exists in this location"},
	{service.ErrDataRoomNameTaken, fiber.StatusConflict, "CONFLICT", "A data room with this name already exists"},

	{service.ErrNameRequired, fiber.StatusBadRequest, "BAD_REQUEST", "Name is required"},
	{service.ErrDataRoomRequired, fiber.StatusBadRequest, "BAD_REQUEST", "dataRoomId is required"},
	{service.ErrMoveCycle, fiber.StatusBadRequest, "BAD_REQUEST", "Cannot move a folder into itself or its descendants"},
	{service.ErrFileTypeNotAllowed, fiber.StatusBadRequest, "BAD_REQUEST", "File type not allowed"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "BAD_REQUEST", "File content is required"},
	{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File exceeds the maximum allowed size"},

	{service.ErrRoomDeleteRefused, fiber.StatusForbidden, "FORBIDDEN", "Data rooms cannot be deleted"},
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		for _, m := range errorMappings {
			if errors.Is(err, m.err) {
				return writeError(c, m.status, m.code, m.message)
			}
		}

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
