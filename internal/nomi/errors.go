package nomi

import (
	"fmt"
	"net/http"
)

// Error is a failure to reach Nomi Echo at all (DNS, connection reset, ...).
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// ConfigError means the client cannot be used, typically because no base URL is set.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// TimeoutError means the upstream did not answer within the client timeout.
type TimeoutError struct{}

func (e *TimeoutError) Error() string {
	return "request to Nomi Echo exceeded the maximum wait time"
}

// ResponseError is a non-2xx or malformed upstream response. Details holds the
// decoded JSON body, the raw text body, or the status line when the body was empty.
type ResponseError struct {
	Status  int
	Message string
	Details any
}

func (e *ResponseError) Error() string { return e.Message }

func statusDetails(resp *http.Response) map[string]any {
	return map[string]any{
		"status":     resp.StatusCode,
		"statusText": http.StatusText(resp.StatusCode),
	}
}

func defaultStatusMessage(status int) string {
	return fmt.Sprintf("Nomi Echo responded with %d %s", status, http.StatusText(status))
}
