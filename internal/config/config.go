package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/keysheet/internal/hotkeys"
	"github.com/1broseidon/keysheet/internal/placement"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "KEYSHEET_CONFIG"

// KeyboardShortcuts are the in-list editing keys shown in the settings panel.
type KeyboardShortcuts struct {
	MoveUp    string `yaml:"move_up"`
	MoveDown  string `yaml:"move_down"`
	Duplicate string `yaml:"duplicate"`
	Delete    string `yaml:"delete"`
	AddNew    string `yaml:"add_new"`
}

// PlacementConfig tunes the chrome offsets used when anchoring the overlay.
type PlacementConfig struct {
	TaskbarReserve     int `yaml:"taskbar_reserve"`
	BorderCompensation int `yaml:"border_compensation"`
}

// OverlayConfig sets the overlay window size in pixels.
type OverlayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	GlobalHotkey      string            `yaml:"global_hotkey"`
	AnchorCorner      string            `yaml:"anchor_corner"`
	AlwaysOnTop       bool              `yaml:"always_on_top"`
	RunOnStartup      bool              `yaml:"run_on_startup"`
	KeyboardShortcuts KeyboardShortcuts `yaml:"keyboard_shortcuts"`
	Placement         PlacementConfig   `yaml:"placement"`
	Overlay           OverlayConfig     `yaml:"overlay"`
	Display           string            `yaml:"display,omitempty"`
	LogLevel          string            `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		GlobalHotkey: "Control-Shift-k",
		AnchorCorner: string(placement.DefaultAnchor),
		AlwaysOnTop:  true,
		RunOnStartup: false,
		KeyboardShortcuts: KeyboardShortcuts{
			MoveUp:    "Control+Up",
			MoveDown:  "Control+Down",
			Duplicate: "Control+D",
			Delete:    "Delete",
			AddNew:    "Control+N",
		},
		Placement: PlacementConfig{
			TaskbarReserve:     placement.DefaultTaskbarReserve,
			BorderCompensation: placement.DefaultBorderCompensation,
		},
		Overlay: OverlayConfig{
			Width:  400,
			Height: 600,
		},
		LogLevel: "info",
	}
}

func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnv)); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "keysheet", "config.yaml"), nil
}

// Anchor returns the parsed anchor corner. Validate guarantees it parses.
func (c *Config) Anchor() placement.Anchor {
	a, err := placement.ParseAnchor(c.AnchorCorner)
	if err != nil {
		return placement.DefaultAnchor
	}
	return a
}

// Offsets returns the placement offsets.
func (c *Config) Offsets() placement.Offsets {
	return placement.Offsets{
		TaskbarReserve:     c.Placement.TaskbarReserve,
		BorderCompensation: c.Placement.BorderCompensation,
	}
}

// OverlaySize returns the overlay window size.
func (c *Config) OverlaySize() placement.Size {
	return placement.Size{Width: c.Overlay.Width, Height: c.Overlay.Height}
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// X11 window dimensions are 16-bit.
const maxOverlayDimension = 65535

func (c *Config) Validate() error {
	if strings.TrimSpace(c.GlobalHotkey) == "" {
		return &ValidationError{Path: "global_hotkey", Err: fmt.Errorf("global_hotkey is required")}
	}
	if _, err := hotkeys.ParseBinding(c.GlobalHotkey); err != nil {
		return &ValidationError{Path: "global_hotkey", Err: err}
	}
	if _, err := placement.ParseAnchor(c.AnchorCorner); err != nil {
		return &ValidationError{Path: "anchor_corner", Err: err}
	}
	if c.Placement.TaskbarReserve < 0 {
		return &ValidationError{Path: "placement.taskbar_reserve", Err: fmt.Errorf("taskbar_reserve must be >= 0")}
	}
	if c.Placement.BorderCompensation < 0 {
		return &ValidationError{Path: "placement.border_compensation", Err: fmt.Errorf("border_compensation must be >= 0")}
	}
	if c.Overlay.Width < 1 || c.Overlay.Width > maxOverlayDimension {
		return &ValidationError{Path: "overlay.width", Err: fmt.Errorf("width must be between 1 and %d", maxOverlayDimension)}
	}
	if c.Overlay.Height < 1 || c.Overlay.Height > maxOverlayDimension {
		return &ValidationError{Path: "overlay.height", Err: fmt.Errorf("height must be between 1 and %d", maxOverlayDimension)}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}
