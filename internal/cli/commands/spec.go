package commands

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eventware/queryspec/pkg/query"
)

var titleCaser = cases.Title(language.English)

// NewSpecCommand creates the spec command.
func NewSpecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spec <scope>",
		Short: "Show the field spec of a scope",
		Long: `Resolve and display the field spec of a scope: every legal moniker
with its type and display title. Dynamic scopes require an event
description file.`,
		Example: `  # Static spec
  queryspec spec cde_member

  # Event-dependent spec
  queryspec spec registration --event-file event.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			scope, err := parseScopeArg(args[0])
			if err != nil {
				return err
			}
			spec, err := cmdCtx.ResolveSpec(scope)
			if err != nil {
				return err
			}

			if cmdCtx.Config.Output == "json" {
				return specJSON(cmd, spec)
			}
			return specTable(cmd, spec)
		},
	}
}

// displayTitle renders an entry's full display title. Translatable
// prefixes are generic labels and get title-cased; user-chosen
// shortnames are shown verbatim.
func displayTitle(e query.Entry) string {
	if e.TitlePrefix == "" {
		return e.Title
	}
	prefix := e.TitlePrefix
	if e.TranslatePrefix {
		prefix = titleCaser.String(prefix)
	}
	return prefix + ": " + e.Title
}

func specTable(cmd *cobra.Command, spec *query.Spec) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Moniker", "Type", "Title", "Choices"})

	for i, key := range spec.Keys() {
		e, _ := spec.Get(key)
		choices := ""
		if len(e.Choices) > 0 {
			choices = strconv.Itoa(len(e.Choices))
		}
		t.AppendRow(table.Row{i, key, string(e.Type), displayTitle(e), choices})
	}

	t.Render()
	return nil
}

func specJSON(cmd *cobra.Command, spec *query.Spec) error {
	type entryInfo struct {
		Moniker string            `json:"moniker"`
		Type    string            `json:"type"`
		Title   string            `json:"title"`
		Choices map[string]string `json:"choices,omitempty"`
	}

	out := make([]entryInfo, 0, spec.Len())
	for _, key := range spec.Keys() {
		e, _ := spec.Get(key)
		out = append(out, entryInfo{
			Moniker: key,
			Type:    string(e.Type),
			Title:   displayTitle(e),
			Choices: e.Choices,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// NewOperatorsCommand creates the operators command.
func NewOperatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operators <type>",
		Short: "List the legal operators for a field type",
		Example: `  queryspec operators str
  queryspec operators datetime`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := query.FieldType(args[0])
			switch typ {
			case query.TypeStr, query.TypeInt, query.TypeFloat,
				query.TypeDate, query.TypeDatetime, query.TypeBool, query.TypeID:
			default:
				return &query.ValidationError{Message: "unknown field type " + args[0]}
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Operator", "Operands"})

			for _, op := range query.LegalOperators(typ) {
				operands := "one"
				switch {
				case op.IsValueless():
					operands = "none"
				case op.IsMultiValued():
					operands = "list"
				}
				t.AppendRow(table.Row{int(op), op.String(), operands})
			}

			t.Render()
			return nil
		},
	}
}
