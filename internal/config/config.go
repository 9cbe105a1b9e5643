// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName is used for the config directory and other per-user paths.
const AppName = "backlight-popup"

// Default configuration values.
const (
	DefaultAccentColor     = "#00FFFF"
	DefaultFontSize        = 24
	DefaultRefreshInterval = 100 * time.Millisecond
	DefaultOpacity         = 1.0
	DefaultWidth           = 250
	DefaultHeight          = 250
	DefaultStep            = 5
)

// Config represents the backlight-popup configuration.
// Loaded from ~/.config/backlight-popup/config.toml
type Config struct {
	Popup     PopupConfig     `toml:"popup"`
	Backlight BacklightConfig `toml:"backlight"`
	Signals   SignalConfig    `toml:"signals"`
}

// PopupConfig contains popup appearance and timing settings.
type PopupConfig struct {
	AccentColor     Color    `toml:"accent_color"`     // "#RRGGBB" or "r, g, b"
	FontSize        int      `toml:"font_size"`        // Points
	RefreshInterval Duration `toml:"refresh_interval"` // e.g. "100ms" or "100"
	Opacity         float64  `toml:"opacity"`          // 0.0-1.0
	Width           int      `toml:"width"`
	Height          int      `toml:"height"`
	Position        string   `toml:"position"` // "center", "top-right", ...
	OffsetX         int      `toml:"offset_x"` // Pixels from anchored edge
	OffsetY         int      `toml:"offset_y"`
	InitialVisible  bool     `toml:"initial_visible"`
}

// BacklightConfig selects how brightness is read and adjusted.
type BacklightConfig struct {
	Source string `toml:"source"` // "auto", "sysfs", "xbacklight", "brightnessctl"
	Device string `toml:"device"` // sysfs device name, empty = first found
	Step   int    `toml:"step"`   // Percent used by backlightctl up/down
}

// SignalConfig maps signals to popup intents.
type SignalConfig struct {
	Hide string `toml:"hide"`
	Show string `toml:"show"`
}

// Position represents a popup position on screen.
type Position string

const (
	PositionCenter       Position = "center"
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionCenter,
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// Brightness sources.
const (
	SourceAuto          = "auto"
	SourceSysfs         = "sysfs"
	SourceXbacklight    = "xbacklight"
	SourceBrightnessctl = "brightnessctl"
)

// ValidSources returns all valid backlight source values.
func ValidSources() []string {
	return []string{SourceAuto, SourceSysfs, SourceXbacklight, SourceBrightnessctl}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Popup: PopupConfig{
			AccentColor:     Color(DefaultAccentColor),
			FontSize:        DefaultFontSize,
			RefreshInterval: Duration(DefaultRefreshInterval),
			Opacity:         DefaultOpacity,
			Width:           DefaultWidth,
			Height:          DefaultHeight,
			Position:        string(PositionCenter),
			InitialVisible:  true,
		},
		Backlight: BacklightConfig{
			Source: SourceAuto,
			Step:   DefaultStep,
		},
		Signals: SignalConfig{
			Hide: "SIGUSR1",
			Show: "SIGUSR2",
		},
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName, "config.toml"), nil
}

// Load loads configuration from path, or from ConfigPath when path is empty.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	p := c.Popup

	if _, err := ParseColor(string(p.AccentColor)); err != nil {
		return err
	}
	if p.Opacity < 0.0 || p.Opacity > 1.0 {
		return fmt.Errorf("opacity must be between 0.0 and 1.0, got %v", p.Opacity)
	}
	if p.RefreshInterval.Duration() < 10*time.Millisecond {
		return fmt.Errorf("refresh_interval must be at least 10ms, got %v", p.RefreshInterval.Duration())
	}
	if p.FontSize < 6 || p.FontSize > 200 {
		return fmt.Errorf("font_size must be between 6 and 200, got %d", p.FontSize)
	}
	if p.Width < 50 || p.Width > 2000 {
		return fmt.Errorf("width must be between 50 and 2000, got %d", p.Width)
	}
	if p.Height < 50 || p.Height > 2000 {
		return fmt.Errorf("height must be between 50 and 2000, got %d", p.Height)
	}

	validPos := false
	for _, pos := range ValidPositions() {
		if p.Position == string(pos) {
			validPos = true
			break
		}
	}
	if !validPos {
		return fmt.Errorf("invalid position %q, must be one of: %v", p.Position, ValidPositions())
	}

	validSource := false
	for _, s := range ValidSources() {
		if c.Backlight.Source == s {
			validSource = true
			break
		}
	}
	if !validSource {
		return fmt.Errorf("invalid backlight source %q, must be one of: %v", c.Backlight.Source, ValidSources())
	}
	if c.Backlight.Step < 1 || c.Backlight.Step > 100 {
		return fmt.Errorf("step must be between 1 and 100, got %d", c.Backlight.Step)
	}

	hide, err := ParseSignal(c.Signals.Hide)
	if err != nil {
		return fmt.Errorf("signals.hide: %w", err)
	}
	show, err := ParseSignal(c.Signals.Show)
	if err != nil {
		return fmt.Errorf("signals.show: %w", err)
	}
	if hide == show {
		return fmt.Errorf("signals.hide and signals.show must differ, both are %v", SignalName(hide))
	}

	return nil
}
