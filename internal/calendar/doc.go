// Package calendar lists events from the Google Calendar API.
//
// A Client pages through Events.List for one calendar at a time, expanding
// recurring events into single instances ordered by start time, and converts
// each remote event into an Event.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//	events, err := client.FetchEvents(ctx, "primary", window)
package calendar
