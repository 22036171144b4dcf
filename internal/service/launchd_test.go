package service

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContainsFormulaServiceContract(t *testing.T) {
	cfg := NewAgentConfig("/opt/homebrew/bin/brew-maintainer", "/opt/homebrew")

	plist, err := cfg.Render()
	require.NoError(t, err)

	wants := []string{
		"<string>com.lucalorenzon.brew-maintainer</string>",
		"<string>/opt/homebrew/bin/brew-maintainer</string>",
		"<string>run</string>",
		"<integer>21600</integer>",
		"<string>/opt/homebrew/var/log/brew-maintainer.log</string>",
		"<string>/opt/homebrew/var/log/brew-maintainer.err.log</string>",
		"<string>/opt/homebrew/var</string>",
		"<string>/opt/homebrew/bin:/opt/homebrew/sbin:/usr/bin:/bin:/usr/sbin:/sbin</string>",
	}
	for _, want := range wants {
		assert.Contains(t, plist, want)
	}
}

func TestRenderUsesIntelPrefixPaths(t *testing.T) {
	cfg := NewAgentConfig("/usr/local/bin/brew-maintainer", "/usr/local")

	plist, err := cfg.Render()
	require.NoError(t, err)

	assert.Contains(t, plist, "<string>/usr/local/var/log/brew-maintainer.log</string>")
	assert.Contains(t, plist, "/usr/local/bin:/usr/local/sbin:")
}

type fakeLaunchctl struct {
	calls  [][]string
	output string
	err    error
}

func (f *fakeLaunchctl) run(args ...string) (string, error) {
	f.calls = append(f.calls, args)
	return f.output, f.err
}

func newTestManager(t *testing.T, fake *fakeLaunchctl) *Manager {
	t.Helper()
	cfg := NewAgentConfig("/opt/homebrew/bin/brew-maintainer", "/opt/homebrew")
	m, err := NewManager(cfg, WithAgentsDir(t.TempDir()), WithLaunchctl(fake.run))
	require.NoError(t, err)
	return m
}

func TestInstallWritesPlistAndLoads(t *testing.T) {
	fake := &fakeLaunchctl{}
	m := newTestManager(t, fake)

	require.NoError(t, m.Install())

	data, err := os.ReadFile(m.PlistPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "<key>StartInterval</key>")

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{"load", "-w", m.PlistPath()}, fake.calls[0])
}

func TestInstallReloadsExistingAgent(t *testing.T) {
	fake := &fakeLaunchctl{}
	m := newTestManager(t, fake)

	require.NoError(t, m.Install())
	require.NoError(t, m.Install())

	// Second install unloads the stale agent before loading the new plist
	require.Len(t, fake.calls, 3)
	assert.Equal(t, "unload", fake.calls[1][0])
	assert.Equal(t, "load", fake.calls[2][0])
}

func TestInstallPropagatesLaunchctlFailure(t *testing.T) {
	fake := &fakeLaunchctl{err: errors.Join(ErrLaunchctl, errors.New("Load failed: 5"))}
	m := newTestManager(t, fake)

	err := m.Install()
	assert.ErrorIs(t, err, ErrLaunchctl)
}

func TestUninstallRemovesPlist(t *testing.T) {
	fake := &fakeLaunchctl{}
	m := newTestManager(t, fake)

	require.NoError(t, m.Install())
	require.NoError(t, m.Uninstall())

	_, err := os.Stat(m.PlistPath())
	assert.True(t, os.IsNotExist(err))

	last := fake.calls[len(fake.calls)-1]
	assert.Equal(t, []string{"unload", "-w", m.PlistPath()}, last)
}

func TestUninstallWithoutInstallReturnsNotInstalled(t *testing.T) {
	fake := &fakeLaunchctl{}
	m := newTestManager(t, fake)

	err := m.Uninstall()
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestStatusParsesLaunchctlList(t *testing.T) {
	fake := &fakeLaunchctl{output: strings.Join([]string{
		"PID\tStatus\tLabel",
		"312\t0\tcom.apple.SafariHistoryServiceAgent",
		"-\t0\tcom.lucalorenzon.brew-maintainer",
		"",
	}, "\n")}
	m := newTestManager(t, fake)
	require.NoError(t, m.Install())

	st, err := m.Status()
	require.NoError(t, err)

	assert.True(t, st.Installed)
	assert.True(t, st.Loaded)
	assert.Equal(t, 0, st.PID)
	assert.Equal(t, 0, st.LastExitStatus)
}

func TestStatusReportsRunningPIDAndExitCode(t *testing.T) {
	fake := &fakeLaunchctl{output: "4711\t1\tcom.lucalorenzon.brew-maintainer\n"}
	m := newTestManager(t, fake)

	st, err := m.Status()
	require.NoError(t, err)

	assert.False(t, st.Installed)
	assert.True(t, st.Loaded)
	assert.Equal(t, 4711, st.PID)
	assert.Equal(t, 1, st.LastExitStatus)
}

func TestStatusNotLoaded(t *testing.T) {
	fake := &fakeLaunchctl{output: "312\t0\tcom.example.other\n"}
	m := newTestManager(t, fake)

	st, err := m.Status()
	require.NoError(t, err)
	assert.False(t, st.Loaded)
}
