// Command duck is the static-analysis CLI: run a project's lints and
// type solver, scaffold a config file, or explain a lint rule.
package main

import (
	"fmt"
	"os"

	"github.com/duck-lang/duck/cmd/duck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
