package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport failures: connection refused, timeouts, unreadable bodies.
	ErrUnavailable = errors.New("banking api unavailable")
	// ErrUnauthorized matches API errors with status 401: the bearer token is missing,
	// expired or revoked.
	ErrUnauthorized = errors.New("banking api rejected credentials")
	// ErrForbidden matches API errors with status 403.
	ErrForbidden = errors.New("banking api denied access")
	// ErrDecode is returned when a 2xx response body is not the expected JSON.
	ErrDecode = errors.New("banking api response malformed")
)

// APIError is a rejection reported by the banking API.
type APIError struct {
	// Status is the envelope statusCode, or the HTTP status when no envelope was readable.
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("banking api [%d]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("banking api [%d]", e.Status)
}

// Is supports errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrForbidden).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

// Message returns the text to show a user for err: the API message when there is one and
// fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
