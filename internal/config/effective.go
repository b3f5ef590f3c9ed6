package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig layers raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.GlobalHotkey != nil {
		cfg.GlobalHotkey = *raw.GlobalHotkey
	}
	if raw.AnchorCorner != nil {
		cfg.AnchorCorner = *raw.AnchorCorner
	}
	if raw.AlwaysOnTop != nil {
		cfg.AlwaysOnTop = *raw.AlwaysOnTop
	}
	if raw.RunOnStartup != nil {
		cfg.RunOnStartup = *raw.RunOnStartup
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if ks := raw.KeyboardShortcuts; ks != nil {
		setString(&cfg.KeyboardShortcuts.MoveUp, ks.MoveUp)
		setString(&cfg.KeyboardShortcuts.MoveDown, ks.MoveDown)
		setString(&cfg.KeyboardShortcuts.Duplicate, ks.Duplicate)
		setString(&cfg.KeyboardShortcuts.Delete, ks.Delete)
		setString(&cfg.KeyboardShortcuts.AddNew, ks.AddNew)
	}
	if p := raw.Placement; p != nil {
		cfg.Placement.TaskbarReserve = derefInt(p.TaskbarReserve, cfg.Placement.TaskbarReserve)
		cfg.Placement.BorderCompensation = derefInt(p.BorderCompensation, cfg.Placement.BorderCompensation)
	}
	if o := raw.Overlay; o != nil {
		cfg.Overlay.Width = derefInt(o.Width, cfg.Overlay.Width)
		cfg.Overlay.Height = derefInt(o.Height, cfg.Overlay.Height)
	}

	return cfg
}

func setString(dst *string, p *string) {
	if p != nil {
		*dst = *p
	}
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
