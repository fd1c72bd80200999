// Package config loads lootkeeper configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all lootkeeper configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Store settings
	Store StoreConfig `yaml:"store"`

	// Engine settings
	Engine EngineConfig `yaml:"engine"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures persistence and authored content.
type StoreConfig struct {
	// DatabasePath is the SQLite file holding actor state.
	DatabasePath string `yaml:"database_path"`
	// SurfacesDir holds the authored surface YAML files.
	SurfacesDir string `yaml:"surfaces_dir"`
	// WatchSurfaces enables hot-reload of the surfaces directory.
	WatchSurfaces bool `yaml:"watch_surfaces"`
}

// EngineConfig configures request handling.
type EngineConfig struct {
	// DefaultGuild is used by CLI invocations that do not name a guild.
	DefaultGuild string `yaml:"default_guild"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "lootkeeper",
		Version: "0.3.0",
		Store: StoreConfig{
			DatabasePath:  "data/lootkeeper.db",
			SurfacesDir:   "surfaces",
			WatchSurfaces: true,
		},
		Engine: EngineConfig{
			DefaultGuild: "default",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LOOTKEEPER_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if dir := os.Getenv("LOOTKEEPER_SURFACES"); dir != "" {
		c.Store.SurfacesDir = dir
	}
	if guild := os.Getenv("LOOTKEEPER_GUILD"); guild != "" {
		c.Engine.DefaultGuild = guild
	}
	if level := os.Getenv("LOOTKEEPER_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
