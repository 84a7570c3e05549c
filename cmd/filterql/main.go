// Command filterql parses Lucene-style queries against a field schema and
// renders them as backend filters.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/filterql/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
