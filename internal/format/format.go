package format

import (
	"errors"
	"fmt"
	"time"

	"github.com/teemow/rofi-calendar/internal/calendar"
	"github.com/teemow/rofi-calendar/internal/settings"
)

const (
	labelToday    = "Today"
	labelTomorrow = "Tomorrow"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	day = 24 * time.Hour
)

var (
	errMissingStart = errors.New("event has no start time")
	errMissingEnd   = errors.New("event has no end time")
)

// FormatError reports an event that cannot be rendered
type FormatError struct {
	EventID string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("failed to format event: %v", e.Err)
	}
	return fmt.Sprintf("failed to format event %s: %v", e.EventID, e.Err)
}

// Unwrap returns the underlying error
func (e *FormatError) Unwrap() error {
	return e.Err
}

// FormatEvent renders event as a single line in loc, labelled relative to now.
// Events without start or end times (all-day events) cannot be rendered.
func FormatEvent(event calendar.Event, loc *time.Location, now time.Time) (string, error) {
	if event.Start.IsZero() {
		return "", &FormatError{EventID: event.ID, Err: errMissingStart}
	}
	if event.End.IsZero() {
		return "", &FormatError{EventID: event.ID, Err: errMissingEnd}
	}
	if loc == nil {
		loc = time.Local
	}

	start := event.Start.In(loc)
	end := event.End.In(loc)

	return fmt.Sprintf("%-10s %s - %s %s",
		label(start, now.In(loc)),
		start.Format(timeLayout),
		end.Format(timeLayout),
		event.Summary,
	), nil
}

// label names start's day relative to the end of now's day.
func label(start, now time.Time) string {
	switch DayDifference(start, now) {
	case 0:
		return labelToday
	case -1:
		return labelTomorrow
	default:
		return start.Format(dateLayout)
	}
}

// DayDifference returns the whole days elapsed from start until the end of
// now's day, rounded down. Events later today yield 0, tomorrow -1 and
// yesterday 1. Both times are compared on their wall clocks in now's location.
func DayDifference(start, now time.Time) int {
	eod := wallClock(settings.EndOfDay(now))
	s := wallClock(start.In(now.Location()))

	d := eod.Sub(s)
	days := d / day
	if d%day != 0 && d < 0 {
		days--
	}
	return int(days)
}

// wallClock reinterprets t's local date and time as UTC
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
