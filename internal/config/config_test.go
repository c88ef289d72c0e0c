package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, AppName, cfg.AppName)
	assert.Equal(t, DefaultFallbackLanguage, cfg.FallbackLanguage)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "auto", cfg.Platform)
	assert.Empty(t, cfg.Language)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shellhost.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
language = "zh-CN"
dev = true
addr = "127.0.0.1:9000"
app_name = ""
`), 0o644))

	t.Setenv("SHELLHOST_ADDR", "127.0.0.1:9100")
	t.Setenv("SHELLHOST_PLATFORM", "linux")
	t.Setenv("SHELLHOST_JSON_LOGS", "yes-please")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "zh-CN", cfg.Language)
	assert.True(t, cfg.Dev)
	assert.Equal(t, "127.0.0.1:9100", cfg.Addr)
	assert.Equal(t, "linux", cfg.Platform)
	assert.False(t, cfg.JSONLogs)
	assert.Equal(t, AppName, cfg.AppName)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("language = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestProductionEnv(t *testing.T) {
	t.Setenv("SHELLHOST_PRODUCTION", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestWatchReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shellhost.toml")
	require.NoError(t, os.WriteFile(path, []byte(`language = "en-US"`), 0o644))

	current, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, current, nil, func(_, updated Config) { changes <- updated })
	}()

	// Give the watcher time to register before writing.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`language = "zh-CN"`), 0o644)
		select {
		case c := <-changes:
			return c.Language == "zh-CN"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
