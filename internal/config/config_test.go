package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("PAPERDESK_DB", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(home, ".paperdesk", "paperdesk.db"), cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "*.pdf", cfg.Library.Pattern)
	assert.Empty(t, cfg.File)
}

func TestLoadFileFromXDG(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "xdg", "paperdesk")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paperdesk.yaml"), []byte(`
store:
  backend: redis
  redisURL: redis://localhost:6379/2
log:
  level: debug
`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Store.RedisURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "paperdesk.yaml"), cfg.File)
}

func TestLoadExplicitFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store":{"path":"/tmp/from-file.db"},"log":{"format":"json"}}`), 0o644))
	t.Setenv("PAPERDESK_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.Store.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("PAPERDESK_DB", "/tmp/from-env.db")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.Store.Path)
}

func TestLoadExplicitMissing(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
