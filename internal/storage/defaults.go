package storage

import (
	"time"

	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/google/uuid"
)

var defaultsCreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type defaultList struct {
	processName string
	name        string
	shortcuts   [][2]string
}

var bundledLists = []defaultList{
	{
		processName: "Code.exe",
		name:        "General",
		shortcuts: [][2]string{
			{"Ctrl+Shift+P", "Command Palette"},
			{"Ctrl+P", "Quick Open File"},
			{"Ctrl+`", "Toggle Terminal"},
			{"Ctrl+B", "Toggle Sidebar"},
			{"Ctrl+/", "Toggle Comment"},
		},
	},
	{
		processName: "chrome.exe",
		name:        "Navigation",
		shortcuts: [][2]string{
			{"Ctrl+T", "New Tab"},
			{"Ctrl+W", "Close Tab"},
			{"Ctrl+Tab", "Next Tab"},
			{"Ctrl+Shift+T", "Reopen Closed Tab"},
		},
	},
}

// DefaultLists returns the shortcut lists seeded for the bundled
// applications.
func DefaultLists() []ShortcutList {
	out := make([]ShortcutList, 0, len(bundledLists))
	for _, def := range bundledLists {
		list := ShortcutList{
			ID:            uuid.NewString(),
			Name:          def.name,
			ApplicationID: registry.BundledID(def.processName),
			CreatedAt:     defaultsCreatedAt,
			UpdatedAt:     defaultsCreatedAt,
		}
		for i, sc := range def.shortcuts {
			list.Shortcuts = append(list.Shortcuts, Shortcut{
				ID:          uuid.NewString(),
				KeyCombo:    sc[0],
				Description: sc[1],
				Order:       i,
			})
		}
		out = append(out, list)
	}
	return out
}
