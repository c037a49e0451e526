package calendar

import "fmt"

// FetchError reports a failed event listing for one calendar
type FetchError struct {
	CalendarID string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to list events for calendar %s: %v", e.CalendarID, e.Err)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}
