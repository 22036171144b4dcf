package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromCreatesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brew-maintainer", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "brew", cfg.Brew.Binary)
	assert.Equal(t, DefaultUpgradeTimeout.String(), cfg.Maintenance.UpgradeTimeout)
	assert.Equal(t, DefaultKeepRuns, cfg.Maintenance.KeepRuns)
	assert.False(t, cfg.Maintenance.IncludeCasks)

	// The default config must have been written to disk
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadFromReadsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `brew:
  prefix: /opt/homebrew
  binary: /opt/homebrew/bin/brew
maintenance:
  upgrade_timeout: 10m
  include_casks: true
  keep_runs: 5
log:
  dir: /tmp/brew-logs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/homebrew", cfg.Brew.Prefix)
	assert.Equal(t, "/opt/homebrew/bin/brew", cfg.Brew.Binary)
	assert.True(t, cfg.Maintenance.IncludeCasks)
	assert.Equal(t, 5, cfg.Maintenance.KeepRuns)
	assert.Equal(t, "/tmp/brew-logs", cfg.Log.Dir)

	timeout, err := cfg.UpgradeTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Brew.Prefix = "/usr/local"
	cfg.Maintenance.UpgradeTimeout = "7m"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local", loaded.Brew.Prefix)
	assert.Equal(t, "7m", loaded.Maintenance.UpgradeTimeout)
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Maintenance.UpgradeTimeout = "five minutes"

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestValidateRejectsMissingPrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Brew.Prefix = filepath.Join(t.TempDir(), "does-not-exist")

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrPrefixNotFound)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestGetPrefixExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Brew.Prefix = dir

	got, err := cfg.GetPrefix()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	cfg.Brew.Prefix = "~/some-prefix"
	got, err = cfg.GetPrefix()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "some-prefix"), got)
}

func TestUpgradeTimeoutDefaultsWhenEmpty(t *testing.T) {
	cfg := &Config{}
	timeout, err := cfg.UpgradeTimeout()
	require.NoError(t, err)
	assert.Equal(t, DefaultUpgradeTimeout, timeout)
}

func TestConfigPathsPreferXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")

	paths, err := ConfigPaths()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "/custom/xdg/brew-maintainer/config.yaml", paths[0])
}
