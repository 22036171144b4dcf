package brew

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrOutdatedParse is returned when brew outdated --json output cannot be decoded
var ErrOutdatedParse = errors.New("cannot parse brew outdated output")

// Package describes one entry from brew outdated --json
type Package struct {
	Name              string   `json:"name"`
	InstalledVersions []string `json:"installed_versions"`
	CurrentVersion    string   `json:"current_version"`
	Pinned            bool     `json:"pinned"`
	PinnedVersion     string   `json:"pinned_version"`
}

func (p Package) String() string {
	return fmt.Sprintf("%s(available:%s): |installed: %s|pinned: %t|pinned-version: %s|",
		p.Name,
		p.CurrentVersion,
		strings.Join(p.InstalledVersions, ", "),
		p.Pinned,
		p.PinnedVersion)
}

// InstalledVersion returns the newest installed version, or "" when unknown
func (p Package) InstalledVersion() string {
	if len(p.InstalledVersions) == 0 {
		return ""
	}
	return p.InstalledVersions[len(p.InstalledVersions)-1]
}

// OutdatedReport holds the upgradable formulae and casks reported by brew
type OutdatedReport struct {
	Formulae []Package `json:"formulae"`
	Casks    []Package `json:"casks"`
}

// Empty reports whether nothing is outdated
func (r *OutdatedReport) Empty() bool {
	return len(r.Formulae) == 0 && len(r.Casks) == 0
}

// Len returns the total number of outdated packages
func (r *OutdatedReport) Len() int {
	return len(r.Formulae) + len(r.Casks)
}

func (r *OutdatedReport) String() string {
	var b strings.Builder
	for _, p := range r.Formulae {
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	for _, p := range r.Casks {
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ParseOutdated decodes brew outdated --json output. Modern brew emits an
// object with formulae and casks arrays; very old releases emit a bare array
// of formulae, which is accepted too.
func ParseOutdated(data string) (*OutdatedReport, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return &OutdatedReport{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var formulae []Package
		if err := json.Unmarshal([]byte(trimmed), &formulae); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutdatedParse, err)
		}
		return &OutdatedReport{Formulae: formulae}, nil
	}

	var report OutdatedReport
	if err := json.Unmarshal([]byte(trimmed), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutdatedParse, err)
	}
	return &report, nil
}
