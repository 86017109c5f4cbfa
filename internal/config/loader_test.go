package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.Equal(t, Default(), cfg)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "default config should be written")
}

func TestLoadReadsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "addr: 127.0.0.1:9999\nauto_kick: true\nnotify: false\ndata_dir: /tmp/lists\nshutdown_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Addr)
	require.True(t, cfg.AutoKick)
	require.False(t, cfg.Notify)
	require.Equal(t, "/tmp/lists", cfg.DataDir)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, Default().SettingsDB, cfg.SettingsDB)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))
	t.Setenv("ROSTER_LOG_LEVEL", "debug")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}
