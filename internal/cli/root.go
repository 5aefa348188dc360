// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lence",
	Short: "Lence - A lightweight data visualization framework",
	Long: `Lence serves dashboards written as markdown pages with embedded SQL.

Pages live in a project directory as plain markdown files; named queries are
embedded as fenced sql blocks and run against data sources (CSV or Parquet
files) registered in config/sources.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
