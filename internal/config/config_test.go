package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "lootkeeper", cfg.Name)
	assert.Equal(t, "data/lootkeeper.db", cfg.Store.DatabasePath)
	assert.Equal(t, "surfaces", cfg.Store.SurfacesDir)
	assert.True(t, cfg.Store.WatchSurfaces)
	assert.Equal(t, "default", cfg.Engine.DefaultGuild)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lootkeeper.yaml")
	content := `
store:
  database_path: /var/lib/lootkeeper/state.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lootkeeper/state.db", cfg.Store.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, "surfaces", cfg.Store.SurfacesDir)
	assert.Equal(t, "default", cfg.Engine.DefaultGuild)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lootkeeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOOTKEEPER_DB", "/tmp/override.db")
	t.Setenv("LOOTKEEPER_SURFACES", "/tmp/surfaces")
	t.Setenv("LOOTKEEPER_GUILD", "guild-42")
	t.Setenv("LOOTKEEPER_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Store.DatabasePath)
	assert.Equal(t, "/tmp/surfaces", cfg.Store.SurfacesDir)
	assert.Equal(t, "guild-42", cfg.Engine.DefaultGuild)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lootkeeper.yaml")
	cfg := DefaultConfig()
	cfg.Store.DatabasePath = "elsewhere.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
