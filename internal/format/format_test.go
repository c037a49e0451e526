package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/rofi-calendar/internal/calendar"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestFormatEvent(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, berlin)

	at := func(d, h, m int) time.Time {
		return time.Date(2024, 3, d, h, m, 0, 0, berlin)
	}

	tests := []struct {
		name  string
		event calendar.Event
		want  string
	}{
		{
			name:  "today",
			event: calendar.Event{Summary: "Standup", Start: at(12, 14, 0), End: at(12, 15, 0)},
			want:  "Today      14:00 - 15:00 Standup",
		},
		{
			name:  "today last minute",
			event: calendar.Event{Summary: "Late", Start: at(12, 23, 59), End: at(13, 0, 30)},
			want:  "Today      23:59 - 00:30 Late",
		},
		{
			name:  "tomorrow",
			event: calendar.Event{Summary: "Planning", Start: at(13, 9, 0), End: at(13, 9, 30)},
			want:  "Tomorrow   09:00 - 09:30 Planning",
		},
		{
			name:  "tomorrow at midnight",
			event: calendar.Event{Summary: "Deploy", Start: at(13, 0, 0), End: at(13, 1, 0)},
			want:  "Tomorrow   00:00 - 01:00 Deploy",
		},
		{
			name:  "two days ahead",
			event: calendar.Event{Summary: "Review", Start: at(14, 11, 0), End: at(14, 12, 0)},
			want:  "2024-03-14 11:00 - 12:00 Review",
		},
		{
			name:  "earlier today",
			event: calendar.Event{Summary: "Breakfast", Start: at(12, 7, 0), End: at(12, 7, 30)},
			want:  "Today      07:00 - 07:30 Breakfast",
		},
		{
			name:  "yesterday",
			event: calendar.Event{Summary: "Retro", Start: at(11, 16, 0), End: at(11, 17, 0)},
			want:  "2024-03-11 16:00 - 17:00 Retro",
		},
		{
			name:  "empty summary",
			event: calendar.Event{Start: at(12, 10, 0), End: at(12, 11, 0)},
			want:  "Today      10:00 - 11:00 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatEvent(tt.event, berlin, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatEvent_ConvertsToDisplayLocation(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, berlin)

	event := calendar.Event{
		Summary: "Standup",
		Start:   time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC),
	}

	got, err := FormatEvent(event, berlin, now)
	require.NoError(t, err)
	assert.Equal(t, "Today      09:00 - 10:30 Standup", got)

	// Rendered in UTC the same instant falls on the previous day relative to a
	// "now" of 2024-03-13 in UTC.
	got, err = FormatEvent(event, time.UTC, time.Date(2024, 3, 13, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12 08:00 - 09:30 Standup", got)
}

func TestFormatEvent_LabelAlignment(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)

	var lines []string
	for d := 12; d <= 14; d++ {
		line, err := FormatEvent(calendar.Event{
			Summary: "x",
			Start:   time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC),
		}, time.UTC, now)
		require.NoError(t, err)
		lines = append(lines, line)
	}

	for _, line := range lines {
		assert.Equal(t, "09:00", line[11:16], line)
	}
}

func TestFormatEvent_MissingTimes(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   calendar.Event
		wantErr error
	}{
		{name: "all-day event", event: calendar.Event{ID: "holiday", Summary: "Holiday"}, wantErr: errMissingStart},
		{name: "missing end", event: calendar.Event{ID: "open", Start: start}, wantErr: errMissingEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatEvent(tt.event, time.UTC, now)
			require.Error(t, err)

			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, tt.event.ID, formatErr.EventID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDayDifference(t *testing.T) {
	utc := time.UTC
	now := time.Date(2024, 3, 12, 12, 0, 0, 0, utc)

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{name: "start of today", start: time.Date(2024, 3, 12, 0, 0, 0, 0, utc), want: 0},
		{name: "end of today", start: time.Date(2024, 3, 12, 23, 59, 59, 999999000, utc), want: 0},
		{name: "start of tomorrow", start: time.Date(2024, 3, 13, 0, 0, 0, 0, utc), want: -1},
		{name: "end of tomorrow", start: time.Date(2024, 3, 13, 23, 59, 0, 0, utc), want: -1},
		{name: "day after tomorrow", start: time.Date(2024, 3, 14, 0, 0, 0, 0, utc), want: -2},
		{name: "yesterday", start: time.Date(2024, 3, 11, 23, 0, 0, 0, utc), want: 1},
		{name: "last week", start: time.Date(2024, 3, 5, 12, 0, 0, 0, utc), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayDifference(tt.start, now))
		})
	}
}

func TestDayDifference_DST(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")

	// Clocks spring forward on 2024-03-31; the day is 23 hours long.
	now := time.Date(2024, 3, 30, 22, 0, 0, 0, berlin)
	assert.Equal(t, -1, DayDifference(time.Date(2024, 3, 31, 23, 30, 0, 0, berlin), now))
	assert.Equal(t, -2, DayDifference(time.Date(2024, 4, 1, 0, 15, 0, 0, berlin), now))

	// Clocks fall back on 2024-10-27; the day is 25 hours long.
	now = time.Date(2024, 10, 27, 1, 0, 0, 0, berlin)
	assert.Equal(t, 0, DayDifference(time.Date(2024, 10, 27, 23, 30, 0, 0, berlin), now))
	assert.Equal(t, -1, DayDifference(time.Date(2024, 10, 28, 0, 0, 0, 0, berlin), now))
}

func TestFormatError(t *testing.T) {
	err := &FormatError{EventID: "abc", Err: errMissingStart}
	assert.Equal(t, "failed to format event abc: event has no start time", err.Error())

	err = &FormatError{Err: errMissingEnd}
	assert.Equal(t, "failed to format event: event has no end time", err.Error())
}
