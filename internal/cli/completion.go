package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// completeOntologyIDs completes ontology IDs from the stored workspace,
// annotated with their names.
func (c *CLI) completeOntologyIDs(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := c.openSession(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.close()

	var out []cobra.Completion
	for _, o := range s.ws.Ontologies() {
		out = append(out, cobra.CompletionWithDesc(o.ID, o.Name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ontoforge.

To load completions:

Bash:
  $ source <(ontoforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ontoforge completion bash > /etc/bash_completion.d/ontoforge
  # macOS:
  $ ontoforge completion bash > $(brew --prefix)/etc/bash_completion.d/ontoforge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ontoforge completion zsh > "${fpath[1]}/_ontoforge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ontoforge completion fish | source

  # To load completions for each session, execute once:
  $ ontoforge completion fish > ~/.config/fish/completions/ontoforge.fish

PowerShell:
  PS> ontoforge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ontoforge completion powershell > ontoforge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
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
