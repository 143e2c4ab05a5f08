// Package config loads tierstore configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Thresholds are per-tier capacity limits. A value of 0 means unbounded:
// no rotation out of that tier. Archive has no threshold; it is terminal.
type Thresholds struct {
	Hot  int `yaml:"hot"`
	Warm int `yaml:"warm"`
	Cold int `yaml:"cold"`
}

// WM configures the working memory layer.
type WM struct {
	// Persist enables the append-only entry log replayed at startup.
	Persist bool `yaml:"persist"`
	// LogPath is the JSONL entry log location.
	LogPath string `yaml:"log_path"`
	// DefaultTTL in logical ticks for entries put without an explicit TTL.
	DefaultTTL int64 `yaml:"default_ttl"`
}

// Config is the full tierstore configuration.
type Config struct {
	DBPath string `yaml:"db_path"`
	// Rotation holds the global tier thresholds.
	Rotation Thresholds `yaml:"rotation"`
	// RotationPerBank overrides Rotation for specific banks.
	RotationPerBank map[string]Thresholds `yaml:"rotation_per_bank"`
	WM              WM                    `yaml:"wm"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath: filepath.Join(home, ".tierstore", "tierstore.db"),
		Rotation: Thresholds{
			Hot:  100,
			Warm: 500,
			Cold: 2000,
		},
		WM: WM{
			LogPath:    filepath.Join(home, ".tierstore", "wm.jsonl"),
			DefaultTTL: 300,
		},
	}
}

// Load reads the config file at path, layered over Default. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ThresholdsFor resolves the rotation thresholds for a bank: the per-bank
// override when one exists, the global defaults otherwise.
func (c Config) ThresholdsFor(bank string) Thresholds {
	if t, ok := c.RotationPerBank[bank]; ok {
		return t
	}
	return c.Rotation
}
