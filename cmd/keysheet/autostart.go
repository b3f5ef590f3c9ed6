package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const autostartFile = "keysheet.desktop"

func autostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autostart"), nil
}

func desktopEntry(executable string) string {
	return strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=keysheet",
		"Comment=Keyboard shortcut cheat sheet",
		fmt.Sprintf("Exec=%q daemon", executable),
		"Terminal=false",
		"X-GNOME-Autostart-enabled=true",
		"",
	}, "\n")
}

// syncAutostart writes or removes the XDG autostart entry in dir. It reports
// whether the file was changed.
func syncAutostart(dir, executable string, enabled bool) (bool, error) {
	path := filepath.Join(dir, autostartFile)
	if !enabled {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to remove autostart entry: %w", err)
		}
		return true, nil
	}

	want := desktopEntry(executable)
	if have, err := os.ReadFile(path); err == nil && string(have) == want {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(want), 0644); err != nil {
		return false, fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return true, nil
}
