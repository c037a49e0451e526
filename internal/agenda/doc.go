// Package agenda collects events across the configured calendars and writes
// them as launcher lines.
package agenda
