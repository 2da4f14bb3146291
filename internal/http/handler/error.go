package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/http/middleware"
	"defiquiz/internal/nomi"
)

// errorPayload is the body written by the global error handler.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messagePayload is the route-level error body the front-end consumes.
type messagePayload struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
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

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
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

// writeMessage writes {"error": message}.
func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(messagePayload{Error: message})
}

// writeInternal logs err and answers 500 with a generic message.
func writeInternal(c *fiber.Ctx, component string, err error) error {
	slog.ErrorContext(c.UserContext(), "request failed",
		"component", component,
		"request_id", requestIDFromCtx(c),
		"error", err,
	)
	return writeMessage(c, fiber.StatusInternalServerError, "Internal server error")
}

// writeNomiError maps Nomi Echo failures: config 503, timeout 504, upstream
// response its own 4xx/5xx status (502 otherwise) with details, anything else 502.
func writeNomiError(c *fiber.Ctx, component string, err error) error {
	var cfgErr *nomi.ConfigError
	var toErr *nomi.TimeoutError
	var respErr *nomi.ResponseError

	switch {
	case errors.As(err, &cfgErr):
		return writeMessage(c, fiber.StatusServiceUnavailable, cfgErr.Error())
	case errors.As(err, &toErr):
		return writeMessage(c, fiber.StatusGatewayTimeout, toErr.Error())
	case errors.As(err, &respErr):
		status := fiber.StatusBadGateway
		if respErr.Status >= 400 && respErr.Status < 600 {
			status = respErr.Status
		}
		return c.Status(status).JSON(messagePayload{Error: respErr.Error(), Details: respErr.Details})
	}

	slog.ErrorContext(c.UserContext(), "nomi echo request failed",
		"component", component,
		"request_id", requestIDFromCtx(c),
		"error", err,
	)
	msg := "Error connecting to Nomi Echo"
	var netErr *nomi.Error
	if errors.As(err, &netErr) {
		msg = netErr.Error()
	}
	return writeMessage(c, fiber.StatusBadGateway, msg)
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
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			slog.ErrorContext(c.UserContext(), "unhandled error",
				"request_id", requestIDFromCtx(c),
				"error", err,
			)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
