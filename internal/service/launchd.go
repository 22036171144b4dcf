// Package service manages the launchd agent that runs maintenance on a
// fixed interval, mirroring what the Homebrew formula's service block set up.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// Label identifies the launchd agent
const Label = "com.lucalorenzon.brew-maintainer"

// DefaultInterval matches the formula's service schedule
const DefaultInterval = 6 * time.Hour

var (
	ErrNotInstalled = errors.New("service is not installed")
	ErrLaunchctl    = errors.New("launchctl command failed")
)

// AgentConfig describes the launchd agent to generate
type AgentConfig struct {
	// Label is the launchd job label
	Label string
	// BinaryPath is the brew-maintainer executable the agent invokes
	BinaryPath string
	// Interval is the time between runs
	Interval time.Duration
	// Prefix is the Homebrew prefix, used for log paths and the PATH env
	Prefix string
}

// NewAgentConfig returns an AgentConfig with the default label and interval
func NewAgentConfig(binaryPath, prefix string) AgentConfig {
	return AgentConfig{
		Label:      Label,
		BinaryPath: binaryPath,
		Interval:   DefaultInterval,
		Prefix:     prefix,
	}
}

// IntervalSeconds returns the StartInterval value
func (c AgentConfig) IntervalSeconds() int {
	return int(c.Interval / time.Second)
}

// LogPath is where the agent's stdout goes
func (c AgentConfig) LogPath() string {
	return filepath.Join(c.Prefix, "var", "log", "brew-maintainer.log")
}

// ErrLogPath is where the agent's stderr goes
func (c AgentConfig) ErrLogPath() string {
	return filepath.Join(c.Prefix, "var", "log", "brew-maintainer.err.log")
}

// WorkingDir is the agent's working directory
func (c AgentConfig) WorkingDir() string {
	return filepath.Join(c.Prefix, "var")
}

// PathEnv is the constrained PATH the agent runs with, Homebrew first
func (c AgentConfig) PathEnv() string {
	return strings.Join([]string{
		filepath.Join(c.Prefix, "bin"),
		filepath.Join(c.Prefix, "sbin"),
		"/usr/bin", "/bin", "/usr/sbin", "/sbin",
	}, ":")
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinaryPath}}</string>
		<string>run</string>
	</array>
	<key>StartInterval</key>
	<integer>{{.IntervalSeconds}}</integer>
	<key>RunAtLoad</key>
	<false/>
	<key>StandardOutPath</key>
	<string>{{.LogPath}}</string>
	<key>StandardErrorPath</key>
	<string>{{.ErrLogPath}}</string>
	<key>WorkingDirectory</key>
	<string>{{.WorkingDir}}</string>
	<key>EnvironmentVariables</key>
	<dict>
		<key>PATH</key>
		<string>{{.PathEnv}}</string>
	</dict>
</dict>
</plist>
`))

// Render produces the launchd property list for the agent
func (c AgentConfig) Render() (string, error) {
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("failed to render plist: %w", err)
	}
	return buf.String(), nil
}

// Manager installs, removes and inspects the launchd agent
type Manager struct {
	cfg       AgentConfig
	agentsDir string
	launchctl func(args ...string) (string, error)
}

// ManagerOption is a functional option for configuring a Manager
type ManagerOption func(*Manager)

// WithAgentsDir overrides the LaunchAgents directory (used in tests)
func WithAgentsDir(dir string) ManagerOption {
	return func(m *Manager) {
		m.agentsDir = dir
	}
}

// WithLaunchctl overrides the launchctl invocation (used in tests)
func WithLaunchctl(fn func(args ...string) (string, error)) ManagerOption {
	return func(m *Manager) {
		m.launchctl = fn
	}
}

// NewManager creates a Manager for the per-user LaunchAgents directory
func NewManager(cfg AgentConfig, opts ...ManagerOption) (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		agentsDir: filepath.Join(home, "Library", "LaunchAgents"),
		launchctl: runLaunchctl,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func runLaunchctl(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("launchctl", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), errors.Join(ErrLaunchctl, errors.New(msg))
	}
	return stdout.String(), nil
}

// PlistPath returns where the agent plist lives
func (m *Manager) PlistPath() string {
	return filepath.Join(m.agentsDir, m.cfg.Label+".plist")
}

// Install writes the agent plist and loads it.
// An already-loaded agent is unloaded first so interval changes take effect.
func (m *Manager) Install() error {
	content, err := m.cfg.Render()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.agentsDir, 0755); err != nil {
		return fmt.Errorf("failed to create agents directory: %w", err)
	}

	path := m.PlistPath()
	if _, statErr := os.Stat(path); statErr == nil {
		// Ignore unload errors: the plist can exist without being loaded
		m.launchctl("unload", path)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write plist: %w", err)
	}

	if _, err := m.launchctl("load", "-w", path); err != nil {
		return err
	}
	return nil
}

// Uninstall unloads the agent and removes its plist
func (m *Manager) Uninstall() error {
	path := m.PlistPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ErrNotInstalled
	}

	// Ignore unload errors: the agent may not be loaded
	m.launchctl("unload", "-w", path)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove plist: %w", err)
	}
	return nil
}

// Status describes the agent's current state
type Status struct {
	// Installed is true when the plist exists
	Installed bool
	// Loaded is true when launchctl knows the job
	Loaded bool
	// PID is the running process id, 0 when idle
	PID int
	// LastExitStatus is the exit code of the last run
	LastExitStatus int
}

// Status inspects the plist and launchctl state of the agent
func (m *Manager) Status() (*Status, error) {
	st := &Status{}

	if _, err := os.Stat(m.PlistPath()); err == nil {
		st.Installed = true
	}

	out, err := m.launchctl("list")
	if err != nil {
		return st, err
	}

	// launchctl list lines: PID\tStatus\tLabel, with "-" for an idle PID
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[2] != m.cfg.Label {
			continue
		}
		st.Loaded = true
		if pid, err := strconv.Atoi(fields[0]); err == nil {
			st.PID = pid
		}
		if code, err := strconv.Atoi(fields[1]); err == nil {
			st.LastExitStatus = code
		}
		break
	}

	return st, nil
}
