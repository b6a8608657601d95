// Package cmd provides the command-line interface for the paging simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "pagingsim",
	Short: "pagingsim is an educational simulator of demand-paged virtual " +
		"memory.",
	Long: `pagingsim is an educational simulator of demand-paged virtual ` +
		`memory. It models physical frames, per-process page tables, and ` +
		`FIFO/LRU page replacement, and serves an interactive web frontend ` +
		`that shows the effect of every memory access.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
