package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is a single timed calendar event.
// Start and End are zero when the remote event has no dateTime (all-day events).
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// toEvent converts a Google Calendar event into an Event
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	e := Event{
		ID:      event.Id,
		Summary: event.Summary,
	}
	if event.Start != nil {
		e.Start = parseDateTime(event.Start.DateTime)
	}
	if event.End != nil {
		e.End = parseDateTime(event.End.DateTime)
	}

	return e
}

func parseDateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
