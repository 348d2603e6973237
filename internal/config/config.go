// Package config manages tailrun's user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-facing defaults for windowed runs.
type Config struct {
	// WindowHeight is the default number of subprocess output lines
	// rendered live.
	WindowHeight int `yaml:"window_height"`

	// Progress selects the display policy: never, always, or auto.
	// The TAILRUN_PROGRESS environment variable takes precedence.
	Progress string `yaml:"progress,omitempty"`

	// Quiet suppresses status and progress output.
	Quiet bool `yaml:"quiet"`

	// History enables the run history ledger.
	History bool `yaml:"history"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		WindowHeight: 5,
		Progress:     "auto",
		History:      true,
	}
}

// Path returns the config file location.
// Falls back to a relative path if the home directory is unknown.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tailrun", "config.yaml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "tailrun", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "tailrun", "config.yaml")
}

// Load reads the configuration from disk. A missing file yields the
// defaults; a malformed one is an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = Default().WindowHeight
	}
	return cfg, nil
}

// Save writes the configuration to disk atomically (temp file then
// rename).
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}

	return nil
}
