package main

import (
	"os"
	"time"

	"github.com/lucalorenzon/brew-maintainer/internal/common/config"
	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
	"github.com/lucalorenzon/brew-maintainer/internal/common/output"
	"github.com/lucalorenzon/brew-maintainer/internal/service"
	"github.com/spf13/cobra"
)

var serviceInterval time.Duration

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the launchd background service",
	Long: `Commands for registering brew-maintainer as a periodic launchd agent.
The agent runs 'brew-maintainer run' on a fixed interval and writes its
output to the Homebrew log directory.`,
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install and load the launchd agent",
	Run:   runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Unload and remove the launchd agent",
	Run:   runServiceUninstall,
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the launchd agent state",
	Run:   runServiceStatus,
}

func init() {
	serviceInstallCmd.Flags().DurationVar(&serviceInterval, "interval", service.DefaultInterval, "Time between maintenance runs")

	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	rootCmd.AddCommand(serviceCmd)
}

func newServiceManager() (*service.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	prefix, err := cfg.GetPrefix()
	if err != nil {
		return nil, err
	}

	binaryPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	agentCfg := service.NewAgentConfig(binaryPath, prefix)
	if serviceInterval > 0 {
		agentCfg.Interval = serviceInterval
	}

	return service.NewManager(agentCfg)
}

func runServiceInstall(cmd *cobra.Command, args []string) {
	m, err := newServiceManager()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if err := m.Install(); err != nil {
		output.PrintError("install failed: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("service installed: %s", m.PlistPath())
	output.PrintInfo("maintenance will run every %s", serviceInterval)
}

func runServiceUninstall(cmd *cobra.Command, args []string) {
	m, err := newServiceManager()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if err := m.Uninstall(); err != nil {
		output.PrintError("uninstall failed: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("service removed")
}

func runServiceStatus(cmd *cobra.Command, args []string) {
	m, err := newServiceManager()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	st, err := m.Status()
	if err != nil {
		output.PrintError("status query failed: %v", err)
		os.Exit(1)
	}

	if !st.Installed {
		output.PrintWarning("service is not installed")
		return
	}
	output.PrintSuccess("service installed: %s", m.PlistPath())

	switch {
	case !st.Loaded:
		output.PrintWarning("agent is not loaded (try 'service install')")
	case st.PID > 0:
		output.PrintInfo("maintenance run in progress (pid %d)", st.PID)
	case st.LastExitStatus != 0:
		output.PrintWarning("last run exited with status %d", st.LastExitStatus)
	default:
		output.PrintInfo("agent loaded, last run succeeded")
	}
}
