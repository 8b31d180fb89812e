// Command yql compiles CUE query definitions into YQL text.
//
// Usage:
//
//	yql [--format json|text] [-v] <command>
//
// Commands:
//   - compile: Render every query in a CUE package, optionally recording a catalog run
//   - render: Print one query's YQL text
//   - validate: Report queries that cannot render
//   - test: Run conformance scenarios against golden files
//   - history: List queries and runs recorded in a catalog
package main

import (
	"fmt"
	"os"

	"github.com/roach88/yql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
