package cmd

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "rofi-calendar"

func defaultSettingsPath() string {
	return filepath.Join(configDir(), "settings.yml")
}

func defaultCredentialsPath() string {
	return filepath.Join(configDir(), "credentials.json")
}

func defaultTokenPath() string {
	return filepath.Join(configDir(), "token.json")
}

// configDir returns $XDG_CONFIG_HOME/rofi-calendar, falling back to
// ~/.config/rofi-calendar
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
