package google

import (
	"os/exec"
	"runtime"
)

var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start() //nolint:gosec // fixed opener binaries
}

func openBrowser(url string) error {
	name, args := openBrowserCommand(url, runtime.GOOS)
	return startCommand(name, args...)
}

func openBrowserCommand(url, goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
