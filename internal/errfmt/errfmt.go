// Package errfmt turns the errors surfaced by a run into single-line
// messages for the error stream.
package errfmt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	ggoogleapi "google.golang.org/api/googleapi"

	"github.com/teemow/rofi-calendar/internal/calendar"
	"github.com/teemow/rofi-calendar/internal/format"
	"github.com/teemow/rofi-calendar/internal/google"
	"github.com/teemow/rofi-calendar/internal/settings"
)

// scopeReasons are Google API error reasons returned when the stored token
// was granted for different scopes than the request needs.
var scopeReasons = map[string]bool{
	"insufficientPermissions":        true,
	"ACCESS_TOKEN_SCOPE_INSUFFICIENT": true,
}

// Format returns a single-line message for err suitable for the error stream.
// It returns an empty string for a nil error.
func Format(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) {
		return "Interrupted"
	}

	var cfgErr *settings.ConfigError
	if errors.As(err, &cfgErr) {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("Settings file not found (expected at %s)", cfgErr.Path)
		}
		return oneLine(cfgErr.Error())
	}

	var authErr *google.AuthError
	if errors.As(err, &authErr) {
		return formatAuth(authErr)
	}

	var fetchErr *calendar.FetchError
	if errors.As(err, &fetchErr) {
		var gerr *ggoogleapi.Error
		if errors.As(err, &gerr) {
			return fmt.Sprintf("Calendar %s: %s", fetchErr.CalendarID, formatGoogleAPI(gerr))
		}
		return oneLine(err.Error())
	}

	var gerr *ggoogleapi.Error
	if errors.As(err, &gerr) {
		return formatGoogleAPI(gerr)
	}

	var formatErr *format.FormatError
	if errors.As(err, &formatErr) {
		return oneLine(fmt.Sprintf("Cannot show event %s: %v (all-day events are not supported)", formatErr.EventID, formatErr.Err))
	}

	return oneLine(err.Error())
}

func formatAuth(err *google.AuthError) string {
	switch {
	case err.Op == "read client secrets" && errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("OAuth client secrets missing. Download an installed-application credentials.json from the Google Cloud console (expected at %s)", err.Path)
	case err.Op == "parse client secrets":
		return oneLine(fmt.Sprintf("OAuth client secrets invalid at %s: %v", err.Path, err.Err))
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		return oneLine(fmt.Sprintf("Authorization failed (%s): %s", retrieveErr.ErrorCode, retrieveErr.ErrorDescription))
	}

	return oneLine(err.Error())
}

func formatGoogleAPI(gerr *ggoogleapi.Error) string {
	reason := ""
	if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
		reason = gerr.Errors[0].Reason
	}

	msg := fmt.Sprintf("Google API error (%d): %s", gerr.Code, gerr.Message)
	if reason != "" {
		msg = fmt.Sprintf("Google API error (%d %s): %s", gerr.Code, reason, gerr.Message)
	}
	if scopeReasons[reason] {
		msg += ". Delete the token file to authorize again with the current scopes"
	}

	return oneLine(msg)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
