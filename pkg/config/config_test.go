package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, DefaultChunkSize, cfg.Stream.ChunkSize)
	assert.Equal(t, "audio/mpeg", cfg.Stream.ContentType)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: DEBUG
  format: json
  output: stderr
library:
  root: /tmp/media
stream:
  chunk_size: 32768
  content_type: audio/ogg
  fail_fast: true
server:
  port: 9000
  shutdown_timeout: 30s
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/media", cfg.Library.Root)
	assert.Equal(t, 32768, cfg.Stream.ChunkSize)
	assert.Equal(t, "audio/ogg", cfg.Stream.ContentType)
	assert.True(t, cfg.Stream.FailFast)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Metrics.Enabled)

	// Unset fields still get defaults
	assert.Equal(t, DefaultIdleTimeout, cfg.Server.IdleTimeout)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: LOUD
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadChunkSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
stream:
  chunk_size: 16
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Library.Root = "/srv/audio"
	cfg.Server.Port = 8181
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/audio", loaded.Library.Root)
	assert.Equal(t, 8181, loaded.Server.Port)
}

func TestInitConfigToPathRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, InitConfigToPath(path, false))
	assert.Error(t, InitConfigToPath(path, false))
	assert.NoError(t, InitConfigToPath(path, true))
}
