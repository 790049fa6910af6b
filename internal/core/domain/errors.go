package domain

import (
	"errors"
	"fmt"
)

var ErrNotLoggedIn = errors.New("not logged in")
var ErrCompanyDetailsRequired = errors.New("company details required")

// ValidationError is raised before any network call when a form field is
// blank or inconsistent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthenticationError is raised when the backend rejects the credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ServerError carries a non-2xx backend response, or a response whose shape
// did not match the expected record. Message is shown to the user verbatim.
// Status is zero when the backend could not be reached at all.
type ServerError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
