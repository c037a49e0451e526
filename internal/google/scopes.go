package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// Scopes are the OAuth scopes requested for rofi-calendar.
//
// Tokens are stored with the scopes they were granted for. After changing
// this list, delete the token file so the next run authorizes again.
var Scopes = []string{
	calendar.CalendarReadonlyScope,
}
