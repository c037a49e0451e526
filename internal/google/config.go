package google

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// LoadOAuthConfig reads an OAuth client secrets file ("installed" or "web"
// application, as downloaded from the Google Cloud console) and returns the
// OAuth2 configuration for Scopes.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path
	if err != nil {
		return nil, &AuthError{Op: "read client secrets", Path: path, Err: err}
	}

	conf, err := ParseOAuthConfig(data)
	if err != nil {
		return nil, &AuthError{Op: "parse client secrets", Path: path, Err: err}
	}

	return conf, nil
}

// ParseOAuthConfig parses client secrets JSON into an OAuth2 configuration
func ParseOAuthConfig(data []byte) (*oauth2.Config, error) {
	conf, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid client secrets: %w", err)
	}
	if conf.ClientID == "" {
		return nil, fmt.Errorf("invalid client secrets: missing client_id")
	}
	return conf, nil
}
