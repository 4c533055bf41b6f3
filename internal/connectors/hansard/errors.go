package hansard

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRetriesExhausted indicates a retryable status persisted past MaxRetries.
var ErrRetriesExhausted = errors.New("hansard: retry budget exhausted")

// ErrResponseTooLarge indicates a response body exceeded MaxBodyBytes.
var ErrResponseTooLarge = errors.New("hansard: response too large")

// APIError represents a non-2xx response from the upstream service.
type APIError struct {
	StatusCode int
	URL        string
	Attempts   int
	// Exhausted is set when the status was retryable but MaxRetries was reached.
	Exhausted bool
}

func (e *APIError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("hansard: API error %d after %d attempts (URL: %s)", e.StatusCode, e.Attempts, e.URL)
	}
	return fmt.Sprintf("hansard: API error %d (URL: %s)", e.StatusCode, e.URL)
}

// Is lets errors.Is match ErrRetriesExhausted.
func (e *APIError) Is(target error) bool {
	return target == ErrRetriesExhausted && e.Exhausted
}

// IsRetryable checks if the error carries a status the client retries
// (429 or 400).
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode == http.StatusBadRequest
	}
	return false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
