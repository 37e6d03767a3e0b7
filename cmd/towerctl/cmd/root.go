// Package cmd provides the CLI commands for towerctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/tower-engine/internal/logging"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "towerctl",
	Short: "Work with insurance program tower documents",
	Long: `towerctl runs the tower premium-allocation engine against stored
tower documents.

It resolves attachments, allocates actual premiums for each layer's
term window, and derives the comparative rate metrics (rate per
million and increased-limit factor).

Examples:
  towerctl compute tower.json
  towerctl compute --format json tower.json
  towerctl normalize tower.json > migrated.json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logging.Initialize(level, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the towerctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("towerctl 0.3.0")
	},
}
