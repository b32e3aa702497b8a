// Package config provides configuration management for the registrar.
//
// Configuration is layered:
//  1. built-in defaults
//  2. the YAML config file
//  3. variables from .env files (never overriding the real environment)
//  4. REGISTRAR_* environment variables
//
// Config file locations (priority order):
//  1. $REGISTRAR_CONFIG
//  2. ./registrar.yaml
//  3. $XDG_CONFIG_HOME/registrar/config.yaml
//  4. ~/.config/registrar/config.yaml
//  5. /etc/registrar/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"registrar/internal/repository"
)

// Backend names understood by the backend registry
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	return LoadOrDefault(FindConfigPath())
}

// LoadOrDefault loads path, or the defaults when path is empty, then applies
// environment overrides and validates the result.
func LoadOrDefault(path string) (*Config, string, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg = DefaultConfig()
	} else {
		cfg, path, err = LoadFromPath(path)
		if err != nil {
			return nil, path, err
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend:    BackendFile,
			Duplicates: string(repository.RejectDuplicates),
			File:       FileConfig{Path: "./registrar.json"},
			SQLite:     SQLiteConfig{Path: "./registrar.db"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.Duplicates == "" {
		c.Storage.Duplicates = defaults.Storage.Duplicates
	}
	if c.Storage.File.Path == "" {
		c.Storage.File.Path = defaults.Storage.File.Path
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = defaults.Storage.SQLite.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// Validate rejects values no component can act on
func (c *Config) Validate() error {
	if _, err := c.DuplicatePolicy(); err != nil {
		return fmt.Errorf("storage.duplicates: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q (want json or console)", c.Log.Format)
	}
	if c.Storage.SQLite.SaveTimeout < 0 {
		return fmt.Errorf("storage.sqlite.save_timeout must not be negative")
	}
	return nil
}

// DuplicatePolicy returns the parsed duplicate-ID policy
func (c *Config) DuplicatePolicy() (repository.DuplicatePolicy, error) {
	return repository.ParseDuplicatePolicy(c.Storage.Duplicates)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	location := ""
	switch c.Storage.Backend {
	case BackendFile:
		location = c.Storage.File.Path
	case BackendSQLite:
		location = c.Storage.SQLite.Path
	}

	summary := fmt.Sprintf("Backend: %s", c.Storage.Backend)
	if location != "" {
		summary += fmt.Sprintf(" (%s)", location)
	}
	summary += fmt.Sprintf(", Duplicates: %s, Log: %s/%s", c.Storage.Duplicates, c.Log.Level, c.Log.Format)
	if c.Metrics.Textfile != "" {
		summary += fmt.Sprintf(", Metrics: %s", c.Metrics.Textfile)
	}
	return summary
}
