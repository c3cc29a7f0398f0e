package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventware/queryspec/internal/sqlgen"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sql <scope> <queryfile>",
		Short: "Render a serialized query as parameterized SQL",
		Example: `  queryspec sql cde_member members.yaml
  queryspec sql registration paid.yaml --event-file event.yaml`,
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
			q.NormalizeIdentifiers()

			sqlText, params, err := sqlgen.Build(q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sqlText)
			for i, p := range params {
				fmt.Fprintf(out, "-- $%d = %v\n", i+1, p)
			}
			return nil
		},
	}
}
