package brew

import "context"

// Executor defines the interface for Homebrew operations.
// This interface allows for mocking brew invocations in tests.
type Executor interface {
	// Update refreshes the formula repositories
	Update() (string, error)

	// Outdated reports installed packages with a newer version available
	Outdated() (*OutdatedReport, error)

	// Upgrade upgrades a single package. The context bounds the upgrade;
	// an interactive prompt aborts it with ErrInputRequested.
	Upgrade(ctx context.Context, name string, cask bool) error

	// Cleanup removes old package versions and stale downloads
	Cleanup() (string, error)

	// Prefix returns the Homebrew installation prefix
	Prefix() string
}
