package maintain

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPolicyParsesHoldsAndTimeouts(t *testing.T) {
	path := writePolicy(t, `
[packages."postgresql@16"]
hold = true

[packages."ffmpeg"]
timeout = "15m"
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.True(t, policy.Held("postgresql@16"))
	assert.False(t, policy.Held("ffmpeg"))
	assert.Equal(t, 15*time.Minute, policy.TimeoutFor("ffmpeg", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, policy.TimeoutFor("wget", 5*time.Minute))
}

func TestLoadPolicyMissingFileYieldsEmptyPolicy(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "packages.toml"))
	require.NoError(t, err)

	assert.Empty(t, policy.Packages)
	assert.False(t, policy.Held("anything"))
	assert.Equal(t, time.Minute, policy.TimeoutFor("anything", time.Minute))
}

func TestLoadPolicyRejectsBadTOML(t *testing.T) {
	path := writePolicy(t, `[packages."wget"
hold = yes?`)

	_, err := LoadPolicy(path)
	assert.ErrorIs(t, err, ErrPolicyParse)
}

func TestLoadPolicyRejectsInvalidTimeout(t *testing.T) {
	path := writePolicy(t, `
[packages."wget"]
timeout = "fifteen minutes"
`)

	_, err := LoadPolicy(path)
	assert.ErrorIs(t, err, ErrInvalidPolicyTimeout)
}

func TestNilPolicyIsPermissive(t *testing.T) {
	var policy *Policy

	assert.False(t, policy.Held("wget"))
	assert.Equal(t, time.Minute, policy.TimeoutFor("wget", time.Minute))
}
