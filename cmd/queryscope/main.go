package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/queryscope/cmd/queryscope/commands"
	"github.com/teranos/queryscope/logger"
)

var rootCmd = &cobra.Command{
	Use:   "queryscope",
	Short: "Analyze FDH schemas and osquery case-management exports",
	Long: `queryscope - analytics over FDH schema exports and osquery activity.

queryscope ingests FDH schema JSON and case-management CSV exports whose
Query column embeds osquery execution payloads, extracts table and attribute
usage from the SQL, and publishes summary reports. Every run is recorded in
a local SQLite ledger.

Available commands:
  fdh     - Analyze an FDH schema export
  osquery - Ingest a case-management osquery export
  db      - Inspect the run ledger
  config  - Manage configuration

Examples:
  queryscope fdh --input fdh.json              # Analyze a schema export
  queryscope osquery --input combined.csv      # Ingest an osquery export
  queryscope osquery --watch                   # Re-run when the input changes
  queryscope db stats                          # Show run history
  queryscope config init                       # Write a starter config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		jsonLogs := false
		if cfg, err := commands.LoadConfig(cmd); err == nil {
			jsonLogs = cfg.Log.JSON
		}

		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON instead of rendered tables")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (overrides the merged defaults)")

	rootCmd.AddCommand(commands.FDHCmd)
	rootCmd.AddCommand(commands.OsqueryCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
