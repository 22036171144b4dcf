package brew

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIsPromptLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"yes/no question", "Do you want to continue? [y/N]", true},
		{"bare y/n", "Overwrite existing file (y/n)?", true},
		{"sudo password", "Password:", true},
		{"ssh passphrase", "Enter passphrase: ", true},
		{"press enter", "Press ENTER to continue", true},
		{"are you sure", "Are you sure you want to uninstall?", true},
		{"would you like", "Would you like to install Rosetta?", true},
		{"progress output", "==> Downloading https://ghcr.io/v2/homebrew/core/wget", false},
		{"pouring", "==> Pouring wget--1.24.5.arm64_sonoma.bottle.tar.gz", false},
		{"summary line", "🍺  /opt/homebrew/Cellar/wget/1.24.5: 92 files, 5MB", false},
		{"empty line", "", false},
		{"plain text", "Already up-to-date.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPromptLine(tt.line); got != tt.want {
				t.Errorf("IsPromptLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestPromptDetectionIsCaseInsensitive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	patternGen := gen.OneConstOf(
		"y/n", "yes/no", "press enter", "continue?", "proceed?",
		"password:", "are you sure", "do you want", "would you like",
	)

	properties.Property("uppercased prompt is still detected", prop.ForAll(
		func(pattern, prefix string) bool {
			line := prefix + strings.ToUpper(pattern)
			return IsPromptLine(line)
		},
		patternGen,
		gen.AlphaString(),
	))

	properties.Property("embedding a prompt anywhere in a line is detected", prop.ForAll(
		func(pattern, prefix, suffix string) bool {
			return IsPromptLine(prefix + pattern + suffix)
		},
		patternGen,
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
