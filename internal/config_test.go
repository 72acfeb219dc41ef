package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "litescan", cfg.AppName)
	assert.Equal(t, 128, cfg.Reader.PageCacheSize)
	assert.False(t, cfg.Reader.SkipBadRows)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, 2000, cfg.Shell.HistoryMax)
	assert.NotContains(t, cfg.Shell.HistoryFile, "~")
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: scanner
reader:
  page_cache_size: 16
log:
  level: debug
shell:
  history_file: /tmp/h
`), 0o644))

	t.Setenv("LITESCAN_READER_SKIP_BAD_ROWS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "scanner", cfg.AppName)
	assert.Equal(t, 16, cfg.Reader.PageCacheSize)
	assert.True(t, cfg.Reader.SkipBadRows)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "/tmp/h", cfg.Shell.HistoryFile)
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reader: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "read config")
}

func TestSlogLevel_Unknown(t *testing.T) {
	cfg := &LiteScanConfig{}
	cfg.Log.Level = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	cfg.Log.Level = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}
