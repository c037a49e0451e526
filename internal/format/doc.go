// Package format renders calendar events as fixed-width launcher lines.
//
// Each line starts with a 10-column label ("Today", "Tomorrow" or the event
// date as YYYY-MM-DD) followed by the 24-hour start and end times and the
// event summary:
//
//	Today      14:00 - 15:00 Standup
//	Tomorrow   09:00 - 09:30 Planning
//	2024-03-14 11:00 - 12:00 Review
package format
