package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the leaf keys of Config, for example:
//
//	global_hotkey
//	anchor_corner
//	placement.taskbar_reserve
//	keyboard_shortcuts.move_up
//	overlay.width
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	values := leafValues(res.Config)
	value, ok := values[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown path: %s", path)
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every path Explain and Set accept.
func Paths() []string {
	return []string{
		"global_hotkey",
		"anchor_corner",
		"always_on_top",
		"run_on_startup",
		"keyboard_shortcuts.move_up",
		"keyboard_shortcuts.move_down",
		"keyboard_shortcuts.duplicate",
		"keyboard_shortcuts.delete",
		"keyboard_shortcuts.add_new",
		"placement.taskbar_reserve",
		"placement.border_compensation",
		"overlay.width",
		"overlay.height",
		"display",
		"log_level",
	}
}

func leafValues(cfg *Config) map[string]any {
	return map[string]any{
		"global_hotkey":                 cfg.GlobalHotkey,
		"anchor_corner":                 cfg.AnchorCorner,
		"always_on_top":                 cfg.AlwaysOnTop,
		"run_on_startup":                cfg.RunOnStartup,
		"keyboard_shortcuts.move_up":    cfg.KeyboardShortcuts.MoveUp,
		"keyboard_shortcuts.move_down":  cfg.KeyboardShortcuts.MoveDown,
		"keyboard_shortcuts.duplicate":  cfg.KeyboardShortcuts.Duplicate,
		"keyboard_shortcuts.delete":     cfg.KeyboardShortcuts.Delete,
		"keyboard_shortcuts.add_new":    cfg.KeyboardShortcuts.AddNew,
		"placement.taskbar_reserve":     cfg.Placement.TaskbarReserve,
		"placement.border_compensation": cfg.Placement.BorderCompensation,
		"overlay.width":                 cfg.Overlay.Width,
		"overlay.height":                cfg.Overlay.Height,
		"display":                       cfg.Display,
		"log_level":                     cfg.LogLevel,
	}
}
