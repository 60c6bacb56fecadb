// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultStore    = "file"
	DefaultDataFile = ".tend/tasks.json"
	DefaultDBPath   = ".tend/tasks.db"

	projectConfigFile = ".tend.toml"
)

// Config holds the full configuration for tend.
type Config struct {
	// Store selects the persistence backend: "file" or "sqlite".
	Store string `toml:"store"`
	// DataFile is the JSON task file used by the file backend.
	DataFile string `toml:"data_file"`
	// DBPath is the database file used by the sqlite backend.
	DBPath string `toml:"db_path"`
}

// Load builds configuration from, in priority order: defaults, the user
// config file (<UserConfigDir>/tend/config.toml), and a project config
// file (.tend.toml in the current directory). CLI flags override the
// result in main.
func Load() (*Config, error) {
	cfg := &Config{
		Store:    DefaultStore,
		DataFile: DefaultDataFile,
		DBPath:   DefaultDBPath,
	}

	if path := userConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	if _, err := os.Stat(projectConfigFile); err == nil {
		if err := loadFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backend is known.
func (c *Config) Validate() error {
	switch c.Store {
	case "file", "sqlite":
		return nil
	default:
		return fmt.Errorf("unknown store %q (expected \"file\" or \"sqlite\")", c.Store)
	}
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "tend", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}
