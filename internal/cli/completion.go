package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for arcforge. Item ids complete from
the configured dataset.

Bash:
  $ source <(arcforge completion bash)

Zsh:
  $ arcforge completion zsh > "${fpath[1]}/_arcforge"

Fish:
  $ arcforge completion fish > ~/.config/fish/completions/arcforge.fish

PowerShell:
  PS> arcforge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeItemIDs completes the first positional argument with dataset
// item ids, described by their display names.
func (c *CLI) completeItemIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cat, err := c.openCatalog(cmd.Context(), cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, it := range cat.Items() {
		if strings.HasPrefix(it.ID, toComplete) {
			out = append(out, it.ID+"\t"+it.DisplayName())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
