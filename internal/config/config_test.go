package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.LegacyPath)
	assert.NotEmpty(t, cfg.DownloadsDir)
	assert.Equal(t, int64(DefaultQuotaBytes), cfg.QuotaBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DatabasePath)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database_path: /tmp/cards.db
legacy_path: /tmp/legacy.json
downloads_dir: /tmp/dl
quota_bytes: 1024
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cards.db", cfg.DatabasePath)
	assert.Equal(t, "/tmp/legacy.json", cfg.LegacyPath)
	assert.Equal(t, "/tmp/dl", cfg.DownloadsDir)
	assert.Equal(t, int64(1024), cfg.QuotaBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: /tmp/from-file.db\n"), 0o644))
	t.Setenv("CARDWISE_DATABASE_PATH", "/tmp/from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.DatabasePath)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: [\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
