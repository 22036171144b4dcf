package maintain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucalorenzon/brew-maintainer/internal/brew"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
)

// Maintainer orchestrates the maintenance cycle against a brew.Executor:
// update, outdated discovery, per-package upgrades, cleanup.
type Maintainer struct {
	exec         brew.Executor
	policy       *Policy
	timeout      time.Duration
	includeCasks bool
	nowFunc      func() time.Time
}

// Option is a functional option for configuring a Maintainer
type Option func(*Maintainer)

// WithPolicy sets the per-package upgrade policy
func WithPolicy(policy *Policy) Option {
	return func(m *Maintainer) {
		m.policy = policy
	}
}

// WithUpgradeTimeout sets the default per-package upgrade timeout
func WithUpgradeTimeout(timeout time.Duration) Option {
	return func(m *Maintainer) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithIncludeCasks also upgrades outdated casks, not just formulae
func WithIncludeCasks(include bool) Option {
	return func(m *Maintainer) {
		m.includeCasks = include
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(m *Maintainer) {
		m.nowFunc = fn
	}
}

// New creates a Maintainer driving the given executor
func New(exec brew.Executor, opts ...Option) *Maintainer {
	m := &Maintainer{
		exec:    exec,
		timeout: 5 * time.Minute,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpdateRepositories refreshes the formula repositories
func (m *Maintainer) UpdateRepositories() (string, error) {
	return m.exec.Update()
}

// FindOutdated returns the packages brew reports as upgradable
func (m *Maintainer) FindOutdated() (*brew.OutdatedReport, error) {
	return m.exec.Outdated()
}

// Cleanup prunes old versions and stale downloads
func (m *Maintainer) Cleanup() (string, error) {
	return m.exec.Cleanup()
}

// upgradeTarget pairs a package with its cask flag
type upgradeTarget struct {
	pkg  brew.Package
	cask bool
}

// partition splits an outdated report into upgrade targets and the packages
// excluded up front (pinned by brew, held by policy).
func (m *Maintainer) partition(report *brew.OutdatedReport) (targets []upgradeTarget, pinned, held []string) {
	consider := func(pkgs []brew.Package, cask bool) {
		for _, p := range pkgs {
			switch {
			case p.Pinned:
				pinned = append(pinned, p.Name)
			case m.policy.Held(p.Name):
				held = append(held, p.Name)
			default:
				targets = append(targets, upgradeTarget{pkg: p, cask: cask})
			}
		}
	}

	consider(report.Formulae, false)
	if m.includeCasks {
		consider(report.Casks, true)
	}
	return targets, pinned, held
}

// upgradeAll upgrades every target package, each bounded by its own timeout.
// Failures do not abort the loop: failed and skipped (input-requested)
// packages are collected and reported. Only parent context cancellation
// stops the loop early.
func (m *Maintainer) upgradeAll(ctx context.Context, targets []upgradeTarget) (upgraded, failed, skipped []string, err error) {
	for _, target := range targets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return upgraded, failed, skipped, ctxErr
		}

		name := target.pkg.Name
		timeout := m.policy.TimeoutFor(name, m.timeout)

		pkgCtx, cancel := context.WithTimeout(ctx, timeout)
		upgradeErr := m.exec.Upgrade(pkgCtx, name, target.cask)
		cancel()

		switch {
		case upgradeErr == nil:
			if target.pkg.CurrentVersion != "" {
				logger.Info("upgraded %s to %s", name, target.pkg.CurrentVersion)
			} else {
				logger.Info("upgraded %s", name)
			}
			upgraded = append(upgraded, name)
		case errors.Is(upgradeErr, brew.ErrInputRequested):
			// Caveat behavior: a run requiring user input is skipped
			// and noted in the log
			logger.Warn("skipped %s: %v", name, upgradeErr)
			skipped = append(skipped, name)
		case errors.Is(upgradeErr, brew.ErrTimeout):
			logger.Error("upgrade of %s exceeded %s", name, timeout)
			failed = append(failed, name)
		case errors.Is(upgradeErr, context.Canceled) && ctx.Err() != nil:
			return upgraded, failed, skipped, ctx.Err()
		default:
			logger.Error("upgrade of %s failed: %v", name, upgradeErr)
			failed = append(failed, name)
		}
	}

	return upgraded, failed, skipped, nil
}

// UpgradeOutdated upgrades everything in an outdated report that is neither
// pinned nor held by policy.
func (m *Maintainer) UpgradeOutdated(ctx context.Context, report *brew.OutdatedReport) (upgraded, failed, skipped []string, err error) {
	targets, pinned, held := m.partition(report)
	for _, name := range pinned {
		logger.Debug("%s is pinned, skipping", name)
	}
	for _, name := range held {
		logger.Debug("%s is held by policy, skipping", name)
	}
	return m.upgradeAll(ctx, targets)
}

// UpgradePackages upgrades the named formulae, honoring policy holds and
// per-package timeouts. Used by the CLI upgrade command.
func (m *Maintainer) UpgradePackages(ctx context.Context, names []string) (upgraded, failed, skipped []string, err error) {
	targets := make([]upgradeTarget, 0, len(names))
	var heldBack []string
	for _, name := range names {
		if m.policy.Held(name) {
			logger.Warn("%s is held by policy, skipping", name)
			heldBack = append(heldBack, name)
			continue
		}
		targets = append(targets, upgradeTarget{pkg: brew.Package{Name: name}})
	}

	upgraded, failed, skipped, err = m.upgradeAll(ctx, targets)
	skipped = append(heldBack, skipped...)
	return upgraded, failed, skipped, err
}

// Run executes the full maintenance cycle and returns its report.
// Update, outdated and cleanup failures abort the run; upgrade failures are
// collected per package. In dry-run mode nothing is upgraded or cleaned.
func (m *Maintainer) Run(ctx context.Context, dryRun bool) (*RunReport, error) {
	report := &RunReport{
		StartedAt: m.nowFunc(),
		DryRun:    dryRun,
	}

	fail := func(err error) (*RunReport, error) {
		report.FinishedAt = m.nowFunc()
		report.Success = false
		return report, err
	}

	// Step 1: brew update
	output, err := m.step(report, "update", func() (string, error) {
		return m.UpdateRepositories()
	})
	if err != nil {
		return fail(fmt.Errorf("failed to update reference repositories: %w", err))
	}
	logger.Info("brew update done")
	logger.Debug("update output: %s", output)

	// Step 2: brew outdated
	var outdated *brew.OutdatedReport
	_, err = m.step(report, "outdated", func() (string, error) {
		var stepErr error
		outdated, stepErr = m.FindOutdated()
		if stepErr != nil {
			return "", stepErr
		}
		return fmt.Sprintf("%d outdated", outdated.Len()), nil
	})
	if err != nil {
		return fail(fmt.Errorf("failed to find outdated packages: %w", err))
	}
	logger.Info("brew outdated done: %d packages", outdated.Len())

	targets, pinned, held := m.partition(outdated)
	report.Pinned = pinned
	report.Held = held

	// Step 3: per-package upgrades
	if dryRun {
		for _, t := range targets {
			logger.Info("would upgrade %s", t.pkg)
		}
		report.FinishedAt = m.nowFunc()
		report.Success = true
		return report, nil
	}

	stepStart := m.nowFunc()
	upgraded, failed, skipped, err := m.upgradeAll(ctx, targets)
	report.Upgraded = upgraded
	report.Failed = failed
	report.Skipped = skipped
	report.Steps = append(report.Steps, StepResult{
		Name:       "upgrade",
		Output:     fmt.Sprintf("%d upgraded, %d failed, %d skipped", len(upgraded), len(failed), len(skipped)),
		StartedAt:  stepStart,
		FinishedAt: m.nowFunc(),
	})
	if err != nil {
		return fail(fmt.Errorf("upgrade loop interrupted: %w", err))
	}
	logger.Info("brew upgrade done")

	// Step 4: brew cleanup
	output, err = m.step(report, "cleanup", func() (string, error) {
		return m.Cleanup()
	})
	if err != nil {
		return fail(fmt.Errorf("failed to cleanup: %w", err))
	}
	logger.Info("brew cleanup done")
	logger.Debug("cleanup output: %s", output)

	report.FinishedAt = m.nowFunc()
	report.Success = len(failed) == 0
	return report, nil
}

// step runs a captured-mode step and records its result in the report
func (m *Maintainer) step(report *RunReport, name string, fn func() (string, error)) (string, error) {
	result := StepResult{
		Name:      name,
		StartedAt: m.nowFunc(),
	}

	output, err := fn()
	result.FinishedAt = m.nowFunc()
	result.Output = output
	if err != nil {
		result.Error = err.Error()
	}

	report.Steps = append(report.Steps, result)
	return output, err
}
