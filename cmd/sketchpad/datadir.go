// ABOUTME: XDG-based data directory resolution for the sketchpad CLI.
// ABOUTME: Checks XDG_DATA_HOME first, falls back to ~/.local/share/sketchpad.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default directory for sketchpad persistent state.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/sketchpad.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sketchpad"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "sketchpad"), nil
}
