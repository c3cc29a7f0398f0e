package commands

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/eventware/queryspec/pkg/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewScopesCommand creates the scopes command.
func NewScopesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scopes",
		Short: "List the available query scopes",
		Long: `List every query scope with its capabilities: whether its field
spec is synthesized from an event's structure, whether queries against
it can be stored, and whether archived records are covered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if cmdCtx.Config.Output == "json" {
				return scopesJSON(cmd)
			}
			return scopesTable(cmd)
		},
	}
}

func scopesTable(cmd *cobra.Command) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scope", "Dynamic", "Storable", "Archived", "Primary Key"})

	for _, s := range query.AllScopes() {
		pk, err := s.GetPrimaryKey(false)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			string(s), s.IsDynamic(), s.SupportsStoring(), s.IncludesArchived(), pk,
		})
	}

	t.Render()
	return nil
}

func scopesJSON(cmd *cobra.Command) error {
	type scopeInfo struct {
		Scope      string `json:"scope"`
		Dynamic    bool   `json:"dynamic"`
		Storable   bool   `json:"storable"`
		Archived   bool   `json:"includes_archived"`
		PrimaryKey string `json:"primary_key"`
	}

	var out []scopeInfo
	for _, s := range query.AllScopes() {
		pk, err := s.GetPrimaryKey(false)
		if err != nil {
			return err
		}
		out = append(out, scopeInfo{
			Scope:      string(s),
			Dynamic:    s.IsDynamic(),
			Storable:   s.SupportsStoring(),
			Archived:   s.IncludesArchived(),
			PrimaryKey: pk,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
