package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the merged, validated configuration for one process run.
type Settings struct {
	// Timezone is the IANA zone used to render events and localize naive timestamps
	Timezone string

	// CalendarIDs lists the calendars to query, in display order
	CalendarIDs []string

	// StartDate and EndDate are optional ISO-8601 window bounds
	StartDate string
	EndDate   string

	location *time.Location
	window   TimeWindow
}

// Location returns the resolved display location
func (s *Settings) Location() *time.Location {
	return s.location
}

// Window returns the time window resolved at load time
func (s *Settings) Window() TimeWindow {
	return s.window
}

// TimeWindow is the [Start, End) range events are queried for.
// Start <= End is not enforced.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Overrides holds caller-supplied values applied on top of the settings file.
// Empty fields leave the file value untouched.
type Overrides struct {
	Timezone  string
	StartDate string
	EndDate   string
}

// Loader reads the settings file at most once.
//
// The first call to Load reads the file, applies its overrides and caches the
// outcome, error included. Later calls return the cached outcome and ignore
// their overrides.
type Loader struct {
	path string
	now  func() time.Time

	once     sync.Once
	settings *Settings
	err      error
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithClock sets the clock used for the default window bounds
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a Loader for the settings file at path
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the settings file path
func (l *Loader) Path() string {
	return l.path
}

// Load returns the process settings, reading the file on the first call only
func (l *Loader) Load(overrides Overrides) (*Settings, error) {
	l.once.Do(func() {
		l.settings, l.err = l.load(overrides)
	})
	return l.settings, l.err
}

func (l *Loader) load(overrides Overrides) (*Settings, error) {
	if l.path == "" {
		return nil, &ConfigError{Err: errors.New("settings path is empty")}
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &ConfigError{Path: l.path, Err: err}
	}

	s, err := parse(data)
	if err != nil {
		return nil, &ConfigError{Path: l.path, Err: err}
	}

	s.apply(overrides)

	if err := s.resolve(l.now()); err != nil {
		return nil, &ConfigError{Path: l.path, Err: err}
	}

	return s, nil
}

// fileSettings mirrors the recognized keys of the settings document
type fileSettings struct {
	Timezone   string     `yaml:"timezone"`
	CalendarID stringList `yaml:"calendar_id"`
	StartDate  string     `yaml:"start_date"`
	EndDate    string     `yaml:"end_date"`
}

type fileDocument struct {
	Settings     *fileSettings `yaml:"settings"`
	fileSettings `yaml:",inline"`
}

// parse decodes a settings document. Unknown keys are ignored; the timezone
// and at least one calendar identifier are required. The location and window
// are left unresolved.
func parse(data []byte) (*Settings, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fs := doc.fileSettings
	if doc.Settings != nil {
		fs = *doc.Settings
	}

	s := &Settings{
		Timezone:    strings.TrimSpace(fs.Timezone),
		CalendarIDs: fs.CalendarID.compact(),
		StartDate:   strings.TrimSpace(fs.StartDate),
		EndDate:     strings.TrimSpace(fs.EndDate),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) validate() error {
	var missing []string
	if s.Timezone == "" {
		missing = append(missing, "timezone")
	}
	if len(s.CalendarIDs) == 0 {
		missing = append(missing, "calendar_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Settings) apply(o Overrides) {
	if v := strings.TrimSpace(o.Timezone); v != "" {
		s.Timezone = v
	}
	if v := strings.TrimSpace(o.StartDate); v != "" {
		s.StartDate = v
	}
	if v := strings.TrimSpace(o.EndDate); v != "" {
		s.EndDate = v
	}
}

// resolve loads the location and computes the window. Without an explicit
// bound the window runs from now until the end of the current day.
func (s *Settings) resolve(now time.Time) error {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	s.location = loc

	now = now.In(loc)
	s.window = TimeWindow{Start: now, End: EndOfDay(now)}

	if s.StartDate != "" {
		start, err := ParseTimestamp(s.StartDate, loc)
		if err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
		s.window.Start = start
	}
	if s.EndDate != "" {
		end, err := ParseTimestamp(s.EndDate, loc)
		if err != nil {
			return fmt.Errorf("invalid end_date: %w", err)
		}
		s.window.End = end
	}

	return nil
}

// stringList accepts either a single scalar or a sequence of scalars
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: calendar_id must be a string or a list of strings", value.Line)
	}
}

func (l stringList) compact() []string {
	var out []string
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
