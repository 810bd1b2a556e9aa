package ozon

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the marketplace API, surfaced with
// status and body. Fatal for the item or batch that triggered it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// AsAPIError unwraps an *APIError from err, if present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
