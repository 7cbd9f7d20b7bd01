// Command shiftsolve runs the demand-decomposition engine: one-shot
// solves from a JSON file, or a long-running server that pulls jobs off
// a queue and publishes their results.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shiftsolve",
	Short: "Demand-driven shift decomposition engine",
}

func main() {
	rootCmd.AddCommand(solveCmd, serveCmd, cacheCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
