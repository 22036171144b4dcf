package maintain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrHistoryCorrupted is returned when the history file cannot be parsed
var ErrHistoryCorrupted = errors.New("history file is corrupted")

// DefaultKeepRuns bounds the history when no limit is configured
const DefaultKeepRuns = 30

// StepResult records the outcome of one maintenance step
type StepResult struct {
	// Name is the step identifier: update, outdated, upgrade, cleanup
	Name string `json:"name"`
	// Output is the trimmed command output, where captured
	Output string `json:"output,omitempty"`
	// Error holds the failure message, empty on success
	Error string `json:"error,omitempty"`
	// StartedAt and FinishedAt bound the step execution
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the step took
func (s StepResult) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Failed reports whether the step ended in error
func (s StepResult) Failed() bool {
	return s.Error != ""
}

// RunReport is the structured outcome of one maintenance run
type RunReport struct {
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps"`
	// Upgraded, Failed and Skipped list package names by upgrade outcome.
	// Skipped packages stopped to ask for user input.
	Upgraded []string `json:"upgraded,omitempty"`
	Failed   []string `json:"failed,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`
	// Pinned and Held were excluded from upgrading up front
	Pinned []string `json:"pinned,omitempty"`
	Held   []string `json:"held,omitempty"`
	DryRun bool     `json:"dry_run,omitempty"`
	// Success is false when a step aborted the run or an upgrade failed
	Success bool `json:"success"`
}

// Duration returns how long the run took
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary returns a one-line description suitable for logs
func (r RunReport) Summary() string {
	status := "ok"
	if !r.Success {
		status = "failed"
	}
	return fmt.Sprintf("%s: %d upgraded, %d failed, %d skipped, %d pinned, %d held (%s)",
		status, len(r.Upgraded), len(r.Failed), len(r.Skipped), len(r.Pinned), len(r.Held),
		r.Duration().Round(time.Second))
}

// historyFile is the JSON structure stored on disk
type historyFile struct {
	Runs []RunReport `json:"runs"`
}

// History persists recent run reports to disk, newest last, bounded to a
// fixed number of runs. Writes are atomic (tmp file + rename).
type History struct {
	runs []RunReport
	keep int
	path string
	mu   sync.RWMutex
}

// HistoryOption is a functional option for configuring History
type HistoryOption func(*History)

// WithKeep bounds the history to the n most recent runs
func WithKeep(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.keep = n
		}
	}
}

// NewHistory creates or loads the run history from stateDir/history.json.
// A corrupted file is discarded; it will be overwritten on the next save.
func NewHistory(stateDir string, opts ...HistoryOption) (*History, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	h := &History{
		keep: DefaultKeepRuns,
		path: filepath.Join(stateDir, "history.json"),
	}

	for _, opt := range opts {
		opt(h)
	}

	if err := h.load(); err != nil {
		if !os.IsNotExist(err) {
			h.runs = nil
		}
	}

	return h, nil
}

func (h *History) load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}

	var hf historyFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryCorrupted, err)
	}

	h.runs = hf.Runs
	return nil
}

// Append records a run report and persists the trimmed history
func (h *History) Append(report RunReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs = append(h.runs, report)
	if len(h.runs) > h.keep {
		h.runs = h.runs[len(h.runs)-h.keep:]
	}

	return h.saveUnsafe()
}

// saveUnsafe persists the history without locking.
// Caller must hold the write lock.
func (h *History) saveUnsafe() error {
	data, err := json.MarshalIndent(historyFile{Runs: h.runs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := h.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	if err := os.Rename(tmpPath, h.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename history file: %w", err)
	}

	return nil
}

// Recent returns up to n reports, newest first
func (h *History) Recent(n int) []RunReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.runs) {
		n = len(h.runs)
	}

	out := make([]RunReport, 0, n)
	for i := len(h.runs) - 1; i >= len(h.runs)-n; i-- {
		out = append(out, h.runs[i])
	}
	return out
}

// Len returns the number of recorded runs
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs)
}
