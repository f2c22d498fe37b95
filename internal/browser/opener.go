// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser opens a rendered report in the user's web browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Opener launches the platform's default handler for a file.
type Opener struct {
	// Command overrides the launcher (e.g. "firefox"); empty uses the
	// platform default.
	Command string

	// start runs the command; exec.Cmd.Start when nil.
	start func(*exec.Cmd) error
}

// NewOpener returns an Opener using command, or the platform default when
// command is empty.
func NewOpener(command string) *Opener {
	return &Opener{Command: command}
}

// Open opens the file at path. The file must exist.
func (o *Opener) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report does not exist: %s", abs)
		}
		return fmt.Errorf("checking report: %w", err)
	}

	cmd, err := o.command(runtime.GOOS, abs)
	if err != nil {
		return err
	}
	start := o.start
	if start == nil {
		start = (*exec.Cmd).Start
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("opening %s: %w", abs, err)
	}
	return nil
}

// command returns the launcher for goos.
func (o *Opener) command(goos, path string) (*exec.Cmd, error) {
	if o.Command != "" {
		return exec.Command(o.Command, path), nil
	}
	switch goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
