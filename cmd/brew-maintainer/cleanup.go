package main

import (
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old package versions and caches",
	Long:  `Run brew cleanup to prune old versions and stale downloads.`,
	Run:   runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	m, err := newMaintainer(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	out, err := m.Cleanup()
	if err != nil {
		output.PrintError("cleanup failed: %v", err)
		os.Exit(1)
	}

	if out != "" {
		logger.Info("%s", out)
	}
	output.PrintSuccess("cleanup complete")
}
