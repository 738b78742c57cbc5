// Command cortexctl is the operator-facing tool surface over
// internal/core (spec.md §2 row 13, SPEC_FULL.md §4.13). It is a thin
// adapter: every command resolves to one or two internal/core.Context
// calls and owns no indexing logic itself.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
