// Package cmd implements the command-line interface for rofi-calendar.
//
// The root command prints the upcoming events of the configured calendars,
// one line per event, for use as a rofi script mode:
//
//	rofi -show cal -modes cal:rofi-calendar
//
// This package provides the following commands:
//   - rofi-calendar: List events between --start and --end (default: now until the end of today)
//   - version: Display version information
package cmd
