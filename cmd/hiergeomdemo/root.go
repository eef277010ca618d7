// Package main provides the hiergeomdemo CLI entry point: a single "run"
// command that builds a small fixture layout, runs the hierarchical local
// geometric processor over it, and reports what each cell committed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hiergeomdemo",
		Short: "Run the hierarchical local geometric processor over a fixture layout",
		Long: `hiergeomdemo demonstrates pkg/processor: a top-down context-discovery
pass followed by a bottom-up result-computation pass over a cell hierarchy.

Commands:
  run       Build the fixture layout, run the processor, print results`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
