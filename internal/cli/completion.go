package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/pipeline"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for the given shell. Space and distribution
tokens of run commands complete too.

  bash:        source <(geospanner completion bash)
  zsh:         geospanner completion zsh > "${fpath[1]}/_geospanner"
  fish:        geospanner completion fish | source
  powershell:  geospanner completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), c.Stdout
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}

// instanceCompletion completes the space and distribution tokens that follow
// the first numeric arguments of a command.
func instanceCompletion(numeric int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		switch len(args) - numeric {
		case 0:
			return []string{geo.TokenEuclid, geo.TokenSphere}, cobra.ShellCompDirectiveNoFileComp
		case 1:
			return []string{instance.TokenUniform, instance.TokenCluster}, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
}

// numericArgs is how many stretch values precede the instance arguments.
func numericArgs(command string) int {
	switch command {
	case pipeline.CommandDeltaGreedy, pipeline.CommandYaoParametrizedPruning:
		return 2
	default:
		return 1
	}
}
