package maintain

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportAt(start time.Time, upgraded ...string) RunReport {
	return RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Upgraded:   upgraded,
		Success:    true,
	}
}

func TestHistoryAppendAndReload(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)

	h, err := NewHistory(dir)
	require.NoError(t, err)
	require.NoError(t, h.Append(reportAt(start, "wget")))
	require.NoError(t, h.Append(reportAt(start.Add(6*time.Hour), "jq")))

	// Reload from disk, as the next service run would
	reloaded, err := NewHistory(dir)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())

	recent := reloaded.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, []string{"jq"}, recent[0].Upgraded)
}

func TestHistoryTrimsToKeepLimit(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	h, err := NewHistory(dir, WithKeep(3))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, h.Append(reportAt(start.Add(time.Duration(i)*6*time.Hour), fmt.Sprintf("pkg%d", i))))
	}

	assert.Equal(t, 3, h.Len())
	recent := h.Recent(0)
	require.Len(t, recent, 3)
	// Newest first
	assert.Equal(t, []string{"pkg9"}, recent[0].Upgraded)
	assert.Equal(t, []string{"pkg7"}, recent[2].Upgraded)
}

func TestHistorySurvivesCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0644))

	h, err := NewHistory(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())

	// Appending overwrites the corrupted file
	require.NoError(t, h.Append(reportAt(time.Now())))
	reloaded, err := NewHistory(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

func TestHistoryWritesAtomically(t *testing.T) {
	dir := t.TempDir()

	h, err := NewHistory(dir)
	require.NoError(t, err)
	require.NoError(t, h.Append(reportAt(time.Now())))

	// No temp file must be left behind after a successful save
	_, err = os.Stat(filepath.Join(dir, "history.json.tmp"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "history.json"))
	assert.NoError(t, err)
}

func TestRunReportSummary(t *testing.T) {
	start := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	report := RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Minute),
		Upgraded:   []string{"wget", "jq"},
		Skipped:    []string{"ffmpeg"},
		Pinned:     []string{"node"},
		Success:    true,
	}

	summary := report.Summary()
	assert.Contains(t, summary, "ok")
	assert.Contains(t, summary, "2 upgraded")
	assert.Contains(t, summary, "1 skipped")
	assert.Contains(t, summary, "1 pinned")
	assert.Contains(t, summary, "2m0s")

	report.Success = false
	report.Failed = []string{"go"}
	assert.Contains(t, report.Summary(), "failed")
}

func TestStepResultDurationAndFailed(t *testing.T) {
	start := time.Now()
	step := StepResult{
		Name:       "update",
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
	}
	assert.Equal(t, 3*time.Second, step.Duration())
	assert.False(t, step.Failed())

	step.Error = "could not resolve github.com"
	assert.True(t, step.Failed())
}
