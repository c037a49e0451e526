package agenda

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/teemow/rofi-calendar/internal/calendar"
	"github.com/teemow/rofi-calendar/internal/format"
	"github.com/teemow/rofi-calendar/internal/logging"
	"github.com/teemow/rofi-calendar/internal/settings"
)

// EventSource lists the events of one calendar within a window
type EventSource interface {
	FetchEvents(ctx context.Context, calendarID string, window settings.TimeWindow) ([]calendar.Event, error)
}

// Agenda lists events of several calendars
type Agenda struct {
	Source   EventSource
	Location *time.Location

	// Now returns the reference time for relative day labels (default: time.Now)
	Now func() time.Time

	Logger logging.Logger
}

// Collect fetches calendarIDs in order and concatenates their events.
// Each calendar keeps its own start-time order; the result is not re-sorted.
// The first fetch failure aborts the collection.
func (a *Agenda) Collect(ctx context.Context, calendarIDs []string, window settings.TimeWindow) ([]calendar.Event, error) {
	logger := a.logger()

	var all []calendar.Event
	for _, id := range calendarIDs {
		events, err := a.Source.FetchEvents(ctx, id, window)
		if err != nil {
			return nil, err
		}
		if len(events) == 0 {
			logger.Debug("no events found", logging.Calendar(id))
			continue
		}
		logger.Debug("collected events", logging.Calendar(id), "count", len(events))
		all = append(all, events...)
	}

	return all, nil
}

// Render writes one line per event to w. Every event is formatted before the
// first line is written, so a malformed event produces no partial output.
func (a *Agenda) Render(w io.Writer, events []calendar.Event) error {
	now := a.now()

	lines := make([]string, 0, len(events))
	for _, event := range events {
		line, err := format.FormatEvent(event, a.Location, now)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write agenda: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write agenda: %w", err)
	}

	return nil
}

// Run collects and renders in one step
func (a *Agenda) Run(ctx context.Context, w io.Writer, calendarIDs []string, window settings.TimeWindow) error {
	events, err := a.Collect(ctx, calendarIDs, window)
	if err != nil {
		return err
	}
	return a.Render(w, events)
}

func (a *Agenda) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Agenda) logger() logging.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logging.Discard()
}
