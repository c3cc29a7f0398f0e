// Package cli provides the queryspec command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eventware/queryspec/internal/cli/commands"
	"github.com/eventware/queryspec/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "queryspec",
		Short: "queryspec - type-aware query specification engine",
		Long: `queryspec describes, validates and renders ad-hoc queries against
event registrations, courses, lodgements and user records.

Field specs are resolved per scope, dynamically synthesized from an
event's structural configuration where needed, and queries round-trip
through a flat wire format suitable for UI form submission.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./queryspec.yaml)")
	rootCmd.PersistentFlags().String("store-path", "", "path to the stored-query database")
	rootCmd.PersistentFlags().String("event-file", "", "path to the event description YAML")
	rootCmd.PersistentFlags().String("default-timezone", "", "zone for naive datetime values")
	rootCmd.PersistentFlags().Bool("timezone-aware", false, "serialize datetimes with their offset")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		commands.NewScopesCommand(),
		commands.NewSpecCommand(),
		commands.NewOperatorsCommand(),
		commands.NewCheckCommand(),
		commands.NewSQLCommand(),
		commands.NewSaveCommand(),
		commands.NewSavedCommand(),
		commands.NewDeleteCommand(),
		commands.NewVersionCommand(Version, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
