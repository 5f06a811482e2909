// Package config loads the GSR engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMappingPath is where the mapping is stored unless configured.
const DefaultMappingPath = "config/gsr-mapping.json"

// Config holds all GSR engine configuration.
type Config struct {
	// MappingPath is the JSON file holding the persisted mapping.
	MappingPath string `yaml:"mapping_path"`
	// CatalogPath optionally names a YAML/JSON schema catalog. When empty the
	// catalog is introspected from the database.
	CatalogPath string `yaml:"catalog_path,omitempty"`
	// DatabasePath is the SQLite database holding the report data.
	DatabasePath string `yaml:"database_path"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ValidFormats lists the supported log formats.
var ValidFormats = []string{"json", "console"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MappingPath:  DefaultMappingPath,
		DatabasePath: "gsr.db",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GSR_MAPPING_PATH"); v != "" {
		c.MappingPath = v
	}

	if v := os.Getenv("GSR_CATALOG_PATH"); v != "" {
		c.CatalogPath = v
	}

	if v := os.Getenv("GSR_DATABASE"); v != "" {
		c.DatabasePath = v
	}

	if v := os.Getenv("GSR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MappingPath) == "" {
		return fmt.Errorf("mapping_path must be set")
	}

	if c.CatalogPath == "" && strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("either catalog_path or database_path must be set")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "" && !slices.Contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}

	return nil
}
