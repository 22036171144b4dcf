package main

import (
	"fmt"
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/lucalorenzon/brew-maintainer/internal/common/version"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "brew-maintainer",
	Short: "Unattended Homebrew maintenance",
	Long: `Keeps a Homebrew installation healthy without user interaction:
updates formula repositories, upgrades outdated packages with per-package
timeouts, and cleans up old versions and caches.

Upgrades that stop to ask for user input are skipped and noted in the log.
Designed to run periodically as a launchd service (see 'service install').`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if logFile != "" {
			if err := logger.Default().EnableFileLoggingAt(logFile); err != nil {
				logger.Warn("file logging disabled: %v", err)
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also log to the given file")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
