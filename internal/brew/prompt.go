package brew

import "strings"

// promptPatterns are substrings that indicate a command has stopped to wait
// for user input. Matching is case-insensitive.
var promptPatterns = []string{
	"y/n",
	"(y/n)",
	"[y/n]",
	"yes/no",
	"(yes/no)",
	"[yes/no]",
	"press enter",
	"continue?",
	"proceed?",
	"password:",
	"passphrase:",
	"are you sure",
	"do you want",
	"would you like",
}

// IsPromptLine reports whether an output line looks like an interactive prompt
func IsPromptLine(line string) bool {
	lower := strings.ToLower(line)
	for _, pattern := range promptPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
