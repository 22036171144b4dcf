package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucalorenzon/brew-maintainer/internal/brew"
	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/spf13/cobra"
)

var outdatedJSON bool

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List packages with a newer version available",
	Long:  `Query brew for outdated formulae and casks and print them.`,
	Run:   runOutdated,
}

func init() {
	outdatedCmd.Flags().BoolVar(&outdatedJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) {
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

	report, err := m.FindOutdated()
	if err != nil {
		output.PrintError("outdated query failed: %v", err)
		os.Exit(1)
	}

	if outdatedJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if report.Empty() {
		output.PrintSuccess("everything is up to date")
		return
	}

	printOutdated("Formulae", report.Formulae)
	printOutdated("Casks", report.Casks)
}

func printOutdated(header string, pkgs []brew.Package) {
	if len(pkgs) == 0 {
		return
	}
	output.Println(output.Header, header+":")
	for _, p := range pkgs {
		line := output.FormatUpgrade(p.Name, p.InstalledVersion(), p.CurrentVersion)
		if p.Pinned {
			line += " " + output.FormatStatus("Pinned")
		}
		fmt.Println("  " + line)
	}
}
