package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/cluster"
	"github.com/matzehuels/unshred/pkg/compose"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for unshred. Besides commands and flags,
the scripts complete the values of --weighting, --membership and
--leftovers, and offer only .json files for --report and report arguments.

To load completions:

Bash:
  $ source <(unshred completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ unshred completion bash > /etc/bash_completion.d/unshred
  # macOS:
  $ unshred completion bash > $(brew --prefix)/etc/bash_completion.d/unshred

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ unshred completion zsh > "${fpath[1]}/_unshred"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ unshred completion fish | source

  # To load completions for each session, execute once:
  $ unshred completion fish > ~/.config/fish/completions/unshred.fish

PowerShell:
  PS> unshred completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> unshred completion powershell > unshred.ps1
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

// Values offered for the enum-valued engine flags.
var (
	weightingValues  = []string{string(affinity.WeightSum), string(affinity.WeightMean)}
	membershipValues = []string{string(cluster.AllMatch), string(cluster.FirstMatch)}
	leftoverValues   = []string{string(compose.Separate), string(compose.Append), string(compose.Discard)}
)

// registerValueCompletions wires value completion for whichever of the
// engine's enum and file flags cmd defines.
func registerValueCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"weighting":  weightingValues,
		"membership": membershipValues,
		"leftovers":  leftoverValues,
	}
	for name, values := range fixed {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("report") != nil {
		_ = cmd.MarkFlagFilename("report", "json")
	}
	if cmd.Flags().Lookup("graph") != nil {
		_ = cmd.MarkFlagFilename("graph", "svg")
	}
}

// completeReportFiles offers .json files for the report argument.
func completeReportFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
