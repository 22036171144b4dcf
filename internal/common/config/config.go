package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrBrewNotFound    = errors.New("brew binary not found: set brew.binary in the config or install Homebrew")
	ErrPrefixNotFound  = errors.New("brew prefix does not exist")
	ErrInvalidTimeout  = errors.New("maintenance.upgrade_timeout is not a valid duration")
	ErrInvalidKeepRuns = errors.New("maintenance.keep_runs must be positive")
)

// DefaultUpgradeTimeout bounds a single package upgrade.
const DefaultUpgradeTimeout = 5 * time.Minute

// DefaultKeepRuns is how many run reports the history retains.
const DefaultKeepRuns = 30

// Config represents the application configuration
type Config struct {
	Brew        BrewConfig        `yaml:"brew"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Log         LogConfig         `yaml:"log"`
}

// BrewConfig holds Homebrew location settings
type BrewConfig struct {
	// Prefix is the Homebrew installation prefix. Empty means auto-detect
	// (/opt/homebrew on Apple Silicon, /usr/local otherwise).
	Prefix string `yaml:"prefix"`
	// Binary is the brew executable to invoke (default "brew", resolved via PATH)
	Binary string `yaml:"binary"`
}

// MaintenanceConfig holds maintenance run settings
type MaintenanceConfig struct {
	// UpgradeTimeout bounds each package upgrade, e.g. "5m"
	UpgradeTimeout string `yaml:"upgrade_timeout"`
	// IncludeCasks also upgrades casks, not just formulae
	IncludeCasks bool `yaml:"include_casks"`
	// KeepRuns is how many run reports to retain in history
	KeepRuns int `yaml:"keep_runs"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Dir overrides the log directory (default: brew prefix var/log)
	Dir string `yaml:"dir"`
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/brew-maintainer/config.yaml (XDG standard - priority)
// 2. ~/.brew-maintainer/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "brew-maintainer", "config.yaml"),
		filepath.Join(home, ".brew-maintainer", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path.
// Returns the default path if no config file exists yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// StateDir returns the directory for run history and other local state
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgState := os.Getenv("XDG_STATE_HOME")
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}

	return filepath.Join(xdgState, "brew-maintainer"), nil
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is replaced by a freshly written default config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// DefaultConfig returns a config populated with defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Brew.Binary == "" {
		c.Brew.Binary = "brew"
	}
	if c.Maintenance.UpgradeTimeout == "" {
		c.Maintenance.UpgradeTimeout = DefaultUpgradeTimeout.String()
	}
	if c.Maintenance.KeepRuns == 0 {
		c.Maintenance.KeepRuns = DefaultKeepRuns
	}
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if _, err := c.UpgradeTimeout(); err != nil {
		return err
	}
	if c.Maintenance.KeepRuns < 0 {
		return ErrInvalidKeepRuns
	}
	if c.Brew.Prefix != "" {
		prefix, err := expandHome(c.Brew.Prefix)
		if err != nil {
			return err
		}
		info, err := os.Stat(prefix)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, c.Brew.Prefix)
		}
	}
	return nil
}

// UpgradeTimeout returns the parsed per-package upgrade timeout
func (c *Config) UpgradeTimeout() (time.Duration, error) {
	raw := c.Maintenance.UpgradeTimeout
	if raw == "" {
		return DefaultUpgradeTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, raw)
	}
	return d, nil
}

// GetPrefix returns the configured Homebrew prefix, auto-detecting when unset.
// Detection prefers /opt/homebrew (Apple Silicon) over /usr/local.
func (c *Config) GetPrefix() (string, error) {
	if c.Brew.Prefix != "" {
		return expandHome(c.Brew.Prefix)
	}

	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if info, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil && !info.IsDir() {
			return prefix, nil
		}
	}

	// Linuxbrew default location, for manual runs off macOS
	linuxbrew := "/home/linuxbrew/.linuxbrew"
	if info, err := os.Stat(filepath.Join(linuxbrew, "bin", "brew")); err == nil && !info.IsDir() {
		return linuxbrew, nil
	}

	return "", ErrBrewNotFound
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
