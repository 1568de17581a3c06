package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gcpmap.

Project arguments complete from the snapshot catalog of --dir.

Bash:
  $ source <(gcpmap completion bash)

Zsh:
  $ gcpmap completion zsh > "${fpath[1]}/_gcpmap"

Fish:
  $ gcpmap completion fish > ~/.config/fish/completions/gcpmap.fish

PowerShell:
  PS> gcpmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeProjects completes the first argument with project ids from the
// snapshot catalog.
func (c *CLI) completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.setup(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := c.newStore().List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var ids []string
	for _, e := range entries {
		if strings.HasPrefix(e.ProjectID, toComplete) {
			ids = append(ids, e.ProjectID+"\t"+e.Modified())
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
