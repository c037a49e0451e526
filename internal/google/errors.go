package google

import (
	"errors"
	"fmt"
)

var (
	errAuthorization = errors.New("authorization error")
	errMissingCode   = errors.New("missing code")
	errStateMismatch = errors.New("state mismatch")
)

// AuthError reports a failure to obtain credentials
type AuthError struct {
	// Op describes the step that failed (e.g. "read client secrets", "refresh token")
	Op string
	// Path is the file involved, if any
	Path string
	Err  error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("auth: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *AuthError) Unwrap() error {
	return e.Err
}
