package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener hands a URL to something that can display it.
type Opener func(rawURL string) error

// SystemOpener launches the platform's default browser.
func SystemOpener(rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}

	cmd := openCommand(runtime.GOOS, rawURL)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	// reap the launcher without waiting on the browser itself
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

// checkURL only lets http(s) URLs reach the launcher.
func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: unsupported scheme", rawURL)
	}
	return nil
}
