// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete configuration.
type Config struct {
	// LedgerFile overrides the ledger location. Empty means the default
	// resolution chain (flag, TALLY_FILE, ~/.timelog.json).
	LedgerFile string `mapstructure:"ledger_file" yaml:"ledger_file"`
	// ExportDir is the base directory for CSV time sheets.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
	// ShowClock toggles the live terminal clock while tracking.
	ShowClock bool `mapstructure:"show_clock" yaml:"show_clock"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{ShowClock: true}
}

// Dir returns the path to the tally config directory.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(cfg, "tally"), nil
}

// Path returns the path to config.yaml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration file, falling back to defaults. Warnings
// are informational; a missing file is not an error.
func Load() (*Config, []string, error) {
	cfg := Default()
	warnings := []string{}

	path, err := Path()
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		warnings = append(warnings, "no config file found, using defaults")
		return cfg, warnings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("show_clock", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, warnings, nil
}

// Save writes the configuration to config.yaml, creating the directory
// when needed.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	v.SetConfigType("yaml")
	v.Set("ledger_file", cfg.LedgerFile)
	v.Set("export_dir", cfg.ExportDir)
	v.Set("show_clock", cfg.ShowClock)

	return v.WriteConfig()
}

// ExportBase returns the CSV export base directory, defaulting to
// ~/Documents/Time Sheet Reports when none is configured.
func (c *Config) ExportBase() (string, error) {
	if c.ExportDir != "" {
		return c.ExportDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "Time Sheet Reports"), nil
}
