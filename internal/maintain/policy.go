// Package maintain implements the unattended Homebrew maintenance cycle:
// update, outdated discovery, per-package upgrades, and cleanup.
package maintain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrPolicyParse is returned when packages.toml cannot be decoded
	ErrPolicyParse = errors.New("failed to parse packages.toml")
	// ErrInvalidPolicyTimeout is returned when a per-package timeout is not a duration
	ErrInvalidPolicyTimeout = errors.New("invalid timeout in packages.toml")
)

// PackagePolicy controls how a single package is treated during upgrades.
type PackagePolicy struct {
	// Hold excludes the package from unattended upgrades
	Hold bool `toml:"hold,omitempty"`
	// Timeout overrides the per-package upgrade timeout, e.g. "15m"
	Timeout string `toml:"timeout,omitempty"`
}

// Policy maps package names to their upgrade policies.
// It is loaded from an optional packages.toml next to the main config:
//
//	[packages."ffmpeg"]
//	timeout = "15m"
//
//	[packages."postgresql@16"]
//	hold = true
type Policy struct {
	Packages map[string]PackagePolicy `toml:"packages"`
}

// DefaultPolicyPath returns the packages.toml location next to the main config
func DefaultPolicyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, "brew-maintainer", "packages.toml"), nil
}

// LoadPolicy reads a policy file. A missing file yields an empty policy,
// since the policy is optional.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Policy{Packages: map[string]PackagePolicy{}}, nil
		}
		return nil, err
	}

	var policy Policy
	if err := toml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolicyParse, err)
	}
	if policy.Packages == nil {
		policy.Packages = map[string]PackagePolicy{}
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &policy, nil
}

// Validate checks every package entry for well-formed values
func (p *Policy) Validate() error {
	for pkg, cfg := range p.Packages {
		if cfg.Timeout == "" {
			continue
		}
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return fmt.Errorf("package %s: %w: %q", pkg, ErrInvalidPolicyTimeout, cfg.Timeout)
		}
	}
	return nil
}

// Held reports whether a package is excluded from unattended upgrades
func (p *Policy) Held(name string) bool {
	if p == nil {
		return false
	}
	return p.Packages[name].Hold
}

// TimeoutFor returns the upgrade timeout for a package, falling back to the
// given default when no override is configured.
func (p *Policy) TimeoutFor(name string, fallback time.Duration) time.Duration {
	if p == nil {
		return fallback
	}
	raw := p.Packages[name].Timeout
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		// Validate rejects this at load time
		return fallback
	}
	return d
}
