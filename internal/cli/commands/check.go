package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scope> <queryfile>",
		Short: "Validate a serialized query against its scope's spec",
		Long: `Deserialize a query from its flat wire form (a YAML file of
string keys and values) and validate it: every moniker must be part of
the resolved spec, every operator legal for its field's type, and
operand shapes must match.`,
		Example: `  queryspec check cde_member members.yaml
  queryspec check registration paid.yaml --event-file event.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			scope, err := parseScopeArg(args[0])
			if err != nil {
				return err
			}

			q, err := cmdCtx.loadQuery(scope, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "query ok: scope=%s fields=%d constraints=%d order=%d\n",
				q.Scope, len(q.Fields), len(q.Constraints), len(q.Order))
			return nil
		},
	}
}
