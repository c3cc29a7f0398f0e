package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/eventware/queryspec/internal/store"
)

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	var name string
	var eventID int

	cmd := &cobra.Command{
		Use:   "save <scope> <queryfile>",
		Short: "Validate and store a query for later reuse",
		Long: `Validate a serialized query and persist it under a name. Only
storable scopes accept saved queries.`,
		Example: `  queryspec save registration paid.yaml --name "paid participants" --event-id 7`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			scope, err := parseScopeArg(args[0])
			if err != nil {
				return err
			}

			// Reject malformed queries before they reach the store.
			if _, err := cmdCtx.loadQuery(scope, args[1]); err != nil {
				return err
			}
			wire, err := loadWireFile(args[1])
			if err != nil {
				return err
			}

			s, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			stored := &store.StoredQuery{
				Scope:      string(scope),
				EventID:    eventID,
				Name:       name,
				Serialized: wire,
			}
			if err := s.Save(stored); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %q as %s\n", name, stored.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the stored query (required)")
	cmd.Flags().IntVar(&eventID, "event-id", 0, "event the query belongs to")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// NewSavedCommand creates the saved command.
func NewSavedCommand() *cobra.Command {
	var eventID int

	cmd := &cobra.Command{
		Use:   "saved <scope>",
		Short: "List stored queries of a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			scope, err := parseScopeArg(args[0])
			if err != nil {
				return err
			}

			s, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			queries, err := s.List(string(scope), eventID)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Event", "Updated"})
			for _, q := range queries {
				t.AppendRow(table.Row{q.ID, q.Name, q.EventID, q.UpdatedAt.Format("2006-01-02 15:04")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&eventID, "event-id", 0, "filter by event")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			s, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
