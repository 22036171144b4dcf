package main

import (
	"fmt"
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent maintenance runs",
	Long:  `Show the reports of recent maintenance runs, newest first.`,
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	history, err := newHistory(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	runs := history.Recent(historyLimit)
	if len(runs) == 0 {
		output.PrintInfo("no maintenance runs recorded yet")
		return
	}

	for _, run := range runs {
		statusColor := output.Success
		if !run.Success {
			statusColor = output.Error
		}
		fmt.Printf("%s  %s\n",
			output.Sprint(output.Dim, run.StartedAt.Format("2006-01-02 15:04")),
			output.Sprint(statusColor, run.Summary()))

		for _, name := range run.Failed {
			fmt.Printf("    %s %s\n", output.FormatStatus("Failed"), name)
		}
		for _, name := range run.Skipped {
			fmt.Printf("    %s %s\n", output.FormatStatus("Skipped"), name)
		}
	}
}
