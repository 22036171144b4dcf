package brew

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
)

var (
	ErrBrewCommand = errors.New("brew command failed")
	// ErrInputRequested is returned when a command stops to ask for user
	// input. Unattended runs skip the package and note it in the log.
	ErrInputRequested = errors.New("command requested user input")
	// ErrTimeout is returned when a command exceeds its deadline
	ErrTimeout = errors.New("command timed out")
)

// Runner executes brew commands against a Homebrew installation
type Runner struct {
	binary string
	prefix string
}

// NewRunner creates a Runner for the given brew binary and prefix.
// An empty binary defaults to "brew" resolved via PATH.
func NewRunner(binary, prefix string) *Runner {
	if binary == "" {
		binary = "brew"
	}
	return &Runner{
		binary: binary,
		prefix: prefix,
	}
}

// Prefix returns the Homebrew installation prefix
func (r *Runner) Prefix() string {
	return r.prefix
}

// environ returns the sanitized environment for child processes.
// Only HOME and PATH pass through; brew resolves everything else itself.
func (r *Runner) environ() []string {
	env := make([]string, 0, 2)
	if home, ok := os.LookupEnv("HOME"); ok {
		env = append(env, "HOME="+home)
	}
	if path, ok := os.LookupEnv("PATH"); ok {
		env = append(env, "PATH="+path)
	}
	return env
}

// runCommand executes a brew command and returns stdout, stderr, and any error
func (r *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	logger.Debug("executing: %s %s", r.binary, strings.Join(args, " "))

	cmd := exec.Command(r.binary, args...)
	cmd.Env = r.environ()

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		// Wrap the error with stderr for context
		if stderr != "" {
			err = errors.Join(ErrBrewCommand, errors.New(strings.TrimSpace(stderr)))
		} else {
			err = errors.Join(ErrBrewCommand, err)
		}
	}

	return stdout, stderr, err
}

// Update refreshes the formula repositories
func (r *Runner) Update() (string, error) {
	stdout, _, err := r.runCommand(UpdateCommand().Args()...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// Outdated reports installed packages with a newer version available
func (r *Runner) Outdated() (*OutdatedReport, error) {
	stdout, _, err := r.runCommand(OutdatedCommand().Args()...)
	if err != nil {
		return nil, err
	}
	return ParseOutdated(stdout)
}

// Upgrade upgrades a single package in streaming mode so interactive
// prompts can be detected and the run aborted.
func (r *Runner) Upgrade(ctx context.Context, name string, cask bool) error {
	return r.runStreaming(ctx, UpgradeCommand(name, cask).Args()...)
}

// Cleanup removes old package versions and stale downloads
func (r *Runner) Cleanup() (string, error) {
	stdout, _, err := r.runCommand(CleanupCommand().Args()...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// Ensure Runner implements the Executor interface
var _ Executor = (*Runner)(nil)
