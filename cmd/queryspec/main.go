// Command queryspec inspects query scopes and field specs, validates
// serialized queries, and renders them as SQL.
package main

import (
	"os"

	"github.com/eventware/queryspec/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
