package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{"GSR_MAPPING_PATH", "GSR_CATALOG_PATH", "GSR_DATABASE", "GSR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "config/gsr-mapping.json", cfg.MappingPath)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gsr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mapping_path: /var/lib/gsr/mapping.json
catalog_path: schema.yaml
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/gsr/mapping.json", cfg.MappingPath)
	assert.Equal(t, "schema.yaml", cfg.CatalogPath)
	assert.Equal(t, "gsr.db", cfg.DatabasePath, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GSR_MAPPING_PATH", "env-mapping.json")
	t.Setenv("GSR_CATALOG_PATH", "env-catalog.yaml")
	t.Setenv("GSR_DATABASE", "env.db")
	t.Setenv("GSR_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-mapping.json", cfg.MappingPath)
	assert.Equal(t, "env-catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.CatalogPath = "schema.json"
	cfg.Logging.Format = "console"

	path := filepath.Join(t.TempDir(), "nested", "gsr.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"catalog file without database", func(c *Config) { c.DatabasePath = ""; c.CatalogPath = "s.yaml" }, ""},
		{"no mapping path", func(c *Config) { c.MappingPath = " " }, "mapping_path"},
		{"no data source", func(c *Config) { c.DatabasePath = "" }, "catalog_path or database_path"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
