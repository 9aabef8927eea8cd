package parking

import "fmt"

// APIError is a failed backend call. Message carries the response body's
// `error` field verbatim when the backend supplied one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func apiError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: message}
}
