package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/stories/internal/config"
)

// execute runs the root command with args and returns the configuration
// handed to the application.
func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(root)

	var got *config.Config
	orig := runApp
	runApp = func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	}
	t.Cleanup(func() { runApp = orig })

	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestRoot_Defaults(t *testing.T) {
	cfg, err := execute(t)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultCatalog, cfg.Catalog)
	assert.Equal(t, 5*time.Second, cfg.AdvanceDelay())
	assert.False(t, cfg.Cache.Disabled)
}

func TestRoot_FlagOverrides(t *testing.T) {
	cfg, err := execute(t,
		"--catalog", "https://example.com/stories.json",
		"--advance", "2s",
		"--log-level", "debug",
		"--image-protocol", "sixel",
		"--no-cache",
	)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/stories.json", cfg.Catalog)
	assert.Equal(t, 2*time.Second, cfg.AdvanceDelay())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sixel", cfg.ImageProtocol)
	assert.True(t, cfg.Cache.Disabled)
	assert.Empty(t, cfg.CacheDir())
}

func TestRoot_PositionalCatalog(t *testing.T) {
	cfg, err := execute(t, "feed.json")

	require.NoError(t, err)
	assert.Equal(t, "feed.json", cfg.Catalog)
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("catalog = \"from-file.json\"\nauto_advance_ms = 1500\n"), 0o600))

	cfg, err := execute(t, "--config", path)

	require.NoError(t, err)
	assert.Equal(t, "from-file.json", cfg.Catalog)
	assert.Equal(t, 1500*time.Millisecond, cfg.AdvanceDelay())
}

func TestRoot_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-positive advance", []string{"--advance", "0s"}},
		{"sub-millisecond advance", []string{"--advance", "500us"}},
		{"unknown log level", []string{"--log-level", "loud"}},
		{"unknown image protocol", []string{"--image-protocol", "iterm"}},
		{"missing config file", []string{"--config", "/nonexistent/stories.toml"}},
		{"too many args", []string{"a.json", "b.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
