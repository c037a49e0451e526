// Package logging provides structured logging utilities for rofi-calendar.
//
// Logs always go to stderr: stdout carries the event lines a launcher reads.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(logging.New(os.Stderr, false), "calendar.list")
//	logger.Debug("fetching events", logging.Calendar("primary"))
//
// Never log tokens directly:
//
//	logger.Debug("token loaded", logging.Token(tok.AccessToken))
package logging
