// perov parses perovskite formulas into stoichiometry and builds feature tables.
package main

import (
	"os"

	"github.com/roach88/perov/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
