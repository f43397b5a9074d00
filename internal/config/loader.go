package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = ".formpilot"
)

// Loader handles configuration loading and discovery.
type Loader struct {
	startDir string
}

// NewLoader creates a new config loader starting from the given directory.
func NewLoader(startDir string) *Loader {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			startDir = "."
		}
	}
	return &Loader{startDir: startDir}
}

// IsInitialized reports whether a config file is discoverable.
func (l *Loader) IsInitialized() bool {
	_, err := l.findConfigFile()
	return err == nil
}

// Load loads the configuration with environment variable overrides.
func (l *Loader) Load() (*Config, error) {
	configPath, err := l.findConfigFile()
	if err != nil {
		// No config file is not fatal: run on defaults.
		cfg := &Config{}
		l.applyEnvOverrides(cfg)
		cfg.Defaults()
		return cfg, cfg.Validate()
	}

	cfg, err := l.loadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	l.applyEnvOverrides(cfg)
	cfg.Defaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches upward from the start directory for a config file.
func (l *Loader) findConfigFile() (string, error) {
	dir := l.startDir
	for {
		configPath := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no config file found (searched upward from %s)", l.startDir)
}

func (l *Loader) loadFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if path := os.Getenv("FORMPILOT_PROFILE"); path != "" {
		cfg.Profile.Path = path
	}
	if chrome := os.Getenv("FORMPILOT_CHROME"); chrome != "" {
		cfg.Browser.ChromePath = chrome
	}
	if os.Getenv("FORMPILOT_HEADLESS") == "1" {
		cfg.Browser.Headless = true
	}
}
