package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Set assigns a string value to the leaf at path, converting it to the
// field's type. The config is validated afterwards; on failure it is left
// unchanged.
func (c *Config) Set(path, value string) error {
	next := *c
	value = strings.TrimSpace(value)

	var err error
	switch path {
	case "global_hotkey":
		next.GlobalHotkey = value
	case "anchor_corner":
		next.AnchorCorner = value
	case "always_on_top":
		next.AlwaysOnTop, err = strconv.ParseBool(value)
	case "run_on_startup":
		next.RunOnStartup, err = strconv.ParseBool(value)
	case "keyboard_shortcuts.move_up":
		next.KeyboardShortcuts.MoveUp = value
	case "keyboard_shortcuts.move_down":
		next.KeyboardShortcuts.MoveDown = value
	case "keyboard_shortcuts.duplicate":
		next.KeyboardShortcuts.Duplicate = value
	case "keyboard_shortcuts.delete":
		next.KeyboardShortcuts.Delete = value
	case "keyboard_shortcuts.add_new":
		next.KeyboardShortcuts.AddNew = value
	case "placement.taskbar_reserve":
		next.Placement.TaskbarReserve, err = strconv.Atoi(value)
	case "placement.border_compensation":
		next.Placement.BorderCompensation, err = strconv.Atoi(value)
	case "overlay.width":
		next.Overlay.Width, err = strconv.Atoi(value)
	case "overlay.height":
		next.Overlay.Height, err = strconv.Atoi(value)
	case "display":
		next.Display = value
	case "log_level":
		next.LogLevel = value
	default:
		return fmt.Errorf("unknown path: %s", path)
	}
	if err != nil {
		return &ValidationError{Path: path, Err: fmt.Errorf("invalid value %q: %w", value, err)}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
