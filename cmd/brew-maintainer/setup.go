package main

import (
	"github.com/lucalorenzon/brew-maintainer/internal/brew"
	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/maintain"
)

// newRunner builds the brew executor from the loaded config
func newRunner(cfg *config.Config) (*brew.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prefix, err := cfg.GetPrefix()
	if err != nil {
		return nil, err
	}
	return brew.NewRunner(cfg.Brew.Binary, prefix), nil
}

// newMaintainer wires the runner, policy and timeouts into a Maintainer
func newMaintainer(cfg *config.Config) (*maintain.Maintainer, error) {
	runner, err := newRunner(cfg)
	if err != nil {
		return nil, err
	}

	policyPath, err := maintain.DefaultPolicyPath()
	if err != nil {
		return nil, err
	}
	policy, err := maintain.LoadPolicy(policyPath)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.UpgradeTimeout()
	if err != nil {
		return nil, err
	}

	return maintain.New(runner,
		maintain.WithPolicy(policy),
		maintain.WithUpgradeTimeout(timeout),
		maintain.WithIncludeCasks(cfg.Maintenance.IncludeCasks),
	), nil
}

// newHistory opens the run history in the state directory
func newHistory(cfg *config.Config) (*maintain.History, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	return maintain.NewHistory(stateDir, maintain.WithKeep(cfg.Maintenance.KeepRuns))
}
