// internal/upstream/errors.go
package upstream

import (
	"errors"
	"fmt"
)

// Error classes for marketplace API failures. Handlers map these onto
// HTTP responses; the sync layer only distinguishes transient failures
// (tolerated, stale data stays on screen) from everything else.
var (
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
	ErrNotFound     = errors.New("upstream: not found")
	ErrBadRequest   = errors.New("upstream: bad request")
	ErrRateLimited  = errors.New("upstream: rate limited")
	ErrUnavailable  = errors.New("upstream: service unavailable")
)

// errorPayload matches the marketplace API's error body.
type errorPayload struct {
	Detail string `json:"detail"`
}

func classifyStatus(statusCode int, detail string) error {
	var class error
	switch {
	case statusCode == 401:
		class = ErrUnauthorized
	case statusCode == 403:
		class = ErrForbidden
	case statusCode == 404:
		class = ErrNotFound
	case statusCode == 429:
		class = ErrRateLimited
	case statusCode >= 500:
		class = ErrUnavailable
	default:
		class = ErrBadRequest
	}

	if detail == "" {
		return fmt.Errorf("%w (status %d)", class, statusCode)
	}
	return fmt.Errorf("%w: %s", class, detail)
}

// IsTransient reports whether the failure is expected to self-heal on a
// later attempt (network errors, 5xx, throttling). Transient failures
// are logged and absorbed by the polling layer, never surfaced as a
// blocking error.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited)
}
