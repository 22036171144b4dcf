package main

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for brew-maintainer.

To load completions:

Bash:
  $ source <(brew-maintainer completion bash)
  # To load completions for each session, execute once:
  $ brew-maintainer completion bash > $(brew --prefix)/etc/bash_completion.d/brew-maintainer

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ brew-maintainer completion zsh > "${fpath[1]}/_brew-maintainer"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ brew-maintainer completion fish | source
  # To load completions for each session, execute once:
  $ brew-maintainer completion fish > ~/.config/fish/completions/brew-maintainer.fish

PowerShell:
  PS> brew-maintainer completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
