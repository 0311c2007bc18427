package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a server-reported failure: a non-2xx response with whatever
// message the server attached. Transport failures are wrapped plain errors,
// so errors.As against *APIError separates the two classes.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsServerError reports a structured server response of any kind, as opposed
// to a connectivity failure where no response arrived.
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
