package config

import (
	"fmt"
	"time"
)

// Config is the root formpilot configuration, loaded from
// .formpilot/config.yaml.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Profile ProfileConfig `yaml:"profile"`
	Overlay OverlayConfig `yaml:"overlay"`
	Detect  DetectConfig  `yaml:"detect"`
}

// BrowserConfig controls how Chrome is launched.
type BrowserConfig struct {
	Headless   bool   `yaml:"headless"`
	ChromePath string `yaml:"chrome_path"` // empty = auto-detect
	WindowW    int    `yaml:"window_width"`
	WindowH    int    `yaml:"window_height"`
}

// ProfileConfig points at the externally maintained profile snapshot.
type ProfileConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // reload on file change
}

// OverlayConfig controls the in-page suggestion surface.
type OverlayConfig struct {
	MaxSuggestions  int `yaml:"max_suggestions"`
	ToastDurationMS int `yaml:"toast_duration_ms"`
	RepositionMS    int `yaml:"reposition_debounce_ms"`
}

// DetectConfig controls field detection.
type DetectConfig struct {
	MutationDebounceMS int `yaml:"mutation_debounce_ms"`
}

// Defaults fills zero values with working defaults.
func (c *Config) Defaults() {
	if c.Browser.WindowW <= 0 {
		c.Browser.WindowW = 1920
	}
	if c.Browser.WindowH <= 0 {
		c.Browser.WindowH = 1080
	}
	if c.Profile.Path == "" {
		c.Profile.Path = ".formpilot/profile.yaml"
	}
	if c.Overlay.MaxSuggestions <= 0 {
		c.Overlay.MaxSuggestions = 5
	}
	if c.Overlay.ToastDurationMS <= 0 {
		c.Overlay.ToastDurationMS = 2500
	}
	if c.Overlay.RepositionMS <= 0 {
		c.Overlay.RepositionMS = 50
	}
	if c.Detect.MutationDebounceMS <= 0 {
		c.Detect.MutationDebounceMS = 200
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Overlay.MaxSuggestions > 20 {
		return fmt.Errorf("overlay.max_suggestions %d is unreasonably large (max 20)", c.Overlay.MaxSuggestions)
	}
	if c.Profile.Path == "" {
		return fmt.Errorf("profile.path must not be empty")
	}
	return nil
}

// ToastDuration returns the toast hold time.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.Overlay.ToastDurationMS) * time.Millisecond
}

// RepositionDebounce returns the scroll/resize reposition window.
func (c *Config) RepositionDebounce() time.Duration {
	return time.Duration(c.Overlay.RepositionMS) * time.Millisecond
}

// MutationDebounce returns the DOM-churn quiet period.
func (c *Config) MutationDebounce() time.Duration {
	return time.Duration(c.Detect.MutationDebounceMS) * time.Millisecond
}
