// Package config stores persistent targetdb settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath overrides the location of the config file.
const EnvPath = "TARGETDB_CONFIG"

// Config stores persistent CLI settings
type Config struct {
	// TargetDirs are searched for .yaml/.yml/.tdl definitions on every run.
	TargetDirs []string `json:"target_dirs,omitempty"`
	// AllowOverride lets definitions from TargetDirs replace builtin families.
	AllowOverride bool `json:"allow_override"`
	// NoBuiltin skips the families compiled into the binary.
	NoBuiltin bool `json:"no_builtin"`
}

// DefaultPath returns the config file location: $TARGETDB_CONFIG when set,
// otherwise targetdb/config.json below the user config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "targetdb", "config.json"), nil
}

// Load reads the config at path. A missing file yields the default config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// AddTargetDir appends dir unless it is already listed. It reports whether
// the list changed.
func (c *Config) AddTargetDir(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	for _, d := range c.TargetDirs {
		if d == dir {
			return false
		}
	}
	c.TargetDirs = append(c.TargetDirs, dir)
	return true
}
