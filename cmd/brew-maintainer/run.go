package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full maintenance cycle",
	Long: `Run the full maintenance cycle: update repositories, upgrade every
outdated package, then clean up old versions and caches.

This is the command the launchd service invokes every 6 hours. Upgrades
requiring user input are skipped and noted in the log; pinned packages and
packages held in packages.toml are never touched.`,
	Run: runMaintenance,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Report what would be upgraded without changing anything")
	rootCmd.AddCommand(runCmd)
}

func runMaintenance(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	// Service runs have no terminal; everything must also land in the log file
	if logFile == "" {
		path := ""
		if cfg.Log.Dir != "" {
			path = filepath.Join(cfg.Log.Dir, "brew-maintainer.log")
		}
		if err := logger.Default().EnableFileLoggingAt(path); err != nil {
			logger.Warn("file logging disabled: %v", err)
		}
	}

	m, err := newMaintainer(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	logger.Info("maintenance run started")
	report, runErr := m.Run(context.Background(), runDryRun)
	logger.Info("maintenance run finished: %s", report.Summary())

	if !runDryRun {
		history, err := newHistory(cfg)
		if err != nil {
			logger.Warn("history unavailable: %v", err)
		} else if err := history.Append(*report); err != nil {
			logger.Warn("could not record run: %v", err)
		}
	}

	if runErr != nil {
		output.PrintError("maintenance failed: %v", runErr)
		os.Exit(1)
	}

	for _, name := range report.Skipped {
		output.PrintWarning("%s skipped: upgrade requires user input", name)
	}
	for _, name := range report.Failed {
		output.PrintError("%s failed to upgrade", name)
	}

	if !report.Success {
		output.PrintError("maintenance finished with failures: %s", report.Summary())
		os.Exit(1)
	}
	output.PrintSuccess("maintenance complete: %s", report.Summary())
}
