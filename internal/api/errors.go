package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the server, carrying whatever message
// the body held.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsAuthError reports whether err is a 401 from the server, meaning the
// session cookie is missing or expired and the user must log in again.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
