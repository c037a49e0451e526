package settings

import "fmt"

// ConfigError reports a settings file that is missing, unreadable, malformed
// or incomplete.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("settings: %v", e.Err)
	}
	return fmt.Sprintf("settings %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}
