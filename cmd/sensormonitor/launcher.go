package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// buildOpenCommand returns the platform command that opens path with its default application.
func buildOpenCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// start treats the first quoted argument as the window title
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// openLogFile starts the default application for path without waiting for it to exit.
func openLogFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	name, args := buildOpenCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}
