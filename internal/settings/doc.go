// Package settings loads the rofi-calendar settings file and derives the
// time window used to query calendars.
//
// The settings file is a YAML document. Keys are read from a top-level
// "settings" mapping, or from the top level of the document when that
// mapping is absent:
//
//	settings:
//	  timezone: Europe/Berlin
//	  calendar_id:
//	    - primary
//	    - team@group.calendar.google.com
//
// A Loader reads the file once. The first call to Load applies its overrides;
// every later call returns the same Settings and ignores its overrides.
package settings
