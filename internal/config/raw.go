package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawKeyboardShortcuts struct {
	MoveUp    *string `yaml:"move_up"`
	MoveDown  *string `yaml:"move_down"`
	Duplicate *string `yaml:"duplicate"`
	Delete    *string `yaml:"delete"`
	AddNew    *string `yaml:"add_new"`
}

type RawPlacement struct {
	TaskbarReserve     *int `yaml:"taskbar_reserve"`
	BorderCompensation *int `yaml:"border_compensation"`
}

type RawOverlay struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

// RawConfig mirrors Config with every field optional so that files can be
// layered; unset fields fall through to the layer below.
type RawConfig struct {
	Include           IncludeList           `yaml:"include"`
	GlobalHotkey      *string               `yaml:"global_hotkey"`
	AnchorCorner      *string               `yaml:"anchor_corner"`
	AlwaysOnTop       *bool                 `yaml:"always_on_top"`
	RunOnStartup      *bool                 `yaml:"run_on_startup"`
	KeyboardShortcuts *RawKeyboardShortcuts `yaml:"keyboard_shortcuts"`
	Placement         *RawPlacement         `yaml:"placement"`
	Overlay           *RawOverlay           `yaml:"overlay"`
	Display           *string               `yaml:"display"`
	LogLevel          *string               `yaml:"log_level"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.GlobalHotkey != nil {
		out.GlobalHotkey = overlay.GlobalHotkey
	}
	if overlay.AnchorCorner != nil {
		out.AnchorCorner = overlay.AnchorCorner
	}
	if overlay.AlwaysOnTop != nil {
		out.AlwaysOnTop = overlay.AlwaysOnTop
	}
	if overlay.RunOnStartup != nil {
		out.RunOnStartup = overlay.RunOnStartup
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	if overlay.KeyboardShortcuts != nil {
		merged := RawKeyboardShortcuts{}
		if out.KeyboardShortcuts != nil {
			merged = *out.KeyboardShortcuts
		}
		ks := overlay.KeyboardShortcuts
		if ks.MoveUp != nil {
			merged.MoveUp = ks.MoveUp
		}
		if ks.MoveDown != nil {
			merged.MoveDown = ks.MoveDown
		}
		if ks.Duplicate != nil {
			merged.Duplicate = ks.Duplicate
		}
		if ks.Delete != nil {
			merged.Delete = ks.Delete
		}
		if ks.AddNew != nil {
			merged.AddNew = ks.AddNew
		}
		out.KeyboardShortcuts = &merged
	}

	if overlay.Placement != nil {
		merged := RawPlacement{}
		if out.Placement != nil {
			merged = *out.Placement
		}
		if overlay.Placement.TaskbarReserve != nil {
			merged.TaskbarReserve = overlay.Placement.TaskbarReserve
		}
		if overlay.Placement.BorderCompensation != nil {
			merged.BorderCompensation = overlay.Placement.BorderCompensation
		}
		out.Placement = &merged
	}

	if overlay.Overlay != nil {
		merged := RawOverlay{}
		if out.Overlay != nil {
			merged = *out.Overlay
		}
		if overlay.Overlay.Width != nil {
			merged.Width = overlay.Overlay.Width
		}
		if overlay.Overlay.Height != nil {
			merged.Height = overlay.Overlay.Height
		}
		out.Overlay = &merged
	}

	return out
}
