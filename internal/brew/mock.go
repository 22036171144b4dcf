package brew

import "context"

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
type MockRunner struct {
	UpdateFunc   func() (string, error)
	OutdatedFunc func() (*OutdatedReport, error)
	UpgradeFunc  func(ctx context.Context, name string, cask bool) error
	CleanupFunc  func() (string, error)
	prefix       string
}

// NewMockRunner creates a new MockRunner with the specified prefix
func NewMockRunner(prefix string) *MockRunner {
	return &MockRunner{
		prefix: prefix,
	}
}

// Update refreshes the formula repositories
func (m *MockRunner) Update() (string, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc()
	}
	return "", nil
}

// Outdated reports installed packages with a newer version available
func (m *MockRunner) Outdated() (*OutdatedReport, error) {
	if m.OutdatedFunc != nil {
		return m.OutdatedFunc()
	}
	return &OutdatedReport{}, nil
}

// Upgrade upgrades a single package
func (m *MockRunner) Upgrade(ctx context.Context, name string, cask bool) error {
	if m.UpgradeFunc != nil {
		return m.UpgradeFunc(ctx, name, cask)
	}
	return nil
}

// Cleanup removes old package versions and stale downloads
func (m *MockRunner) Cleanup() (string, error) {
	if m.CleanupFunc != nil {
		return m.CleanupFunc()
	}
	return "", nil
}

// Prefix returns the Homebrew installation prefix
func (m *MockRunner) Prefix() string {
	return m.prefix
}

// Ensure MockRunner implements the Executor interface
var _ Executor = (*MockRunner)(nil)
