package main

import (
	"context"
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [package...]",
	Short: "Upgrade outdated packages",
	Long: `Upgrade the named packages, or every outdated package when none are
given. Each upgrade is bounded by a timeout and aborted if it stops to ask
for user input.`,
	Run: runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) {
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

	ctx := context.Background()

	var upgraded, failed, skipped []string
	if len(args) > 0 {
		upgraded, failed, skipped, err = m.UpgradePackages(ctx, args)
	} else {
		outdated, findErr := m.FindOutdated()
		if findErr != nil {
			output.PrintError("outdated query failed: %v", findErr)
			os.Exit(1)
		}
		upgraded, failed, skipped, err = m.UpgradeOutdated(ctx, outdated)
	}
	if err != nil {
		output.PrintError("upgrade interrupted: %v", err)
		os.Exit(1)
	}

	for _, name := range upgraded {
		output.PrintSuccess("%s upgraded", name)
	}
	for _, name := range skipped {
		output.PrintWarning("%s skipped: upgrade requires user input", name)
	}
	for _, name := range failed {
		output.PrintError("%s failed to upgrade", name)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
	if len(upgraded) == 0 && len(skipped) == 0 {
		output.PrintSuccess("nothing to upgrade")
	}
}
