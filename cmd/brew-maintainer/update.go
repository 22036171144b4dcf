package main

import (
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update formula repositories",
	Long:  `Run brew update to refresh the formula repositories.`,
	Run:   runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
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

	out, err := m.UpdateRepositories()
	if err != nil {
		output.PrintError("update failed: %v", err)
		os.Exit(1)
	}

	if out != "" {
		logger.Info("%s", out)
	}
	output.PrintSuccess("repositories updated")
}
