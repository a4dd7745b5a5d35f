package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/queryscope/db"
	"github.com/teranos/queryscope/display"
	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/sym"
)

// DbCmd represents the db (run ledger) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Inspect the run ledger",
	Long: sym.DB + ` db — Inspect the queryscope run ledger

Every fdh and osquery run is recorded in a local SQLite database.

Examples:
  queryscope db stats              # Aggregate history and recent runs
  queryscope db stats --limit 10   # Show the last 10 runs`,
}

var statsLimitFlag int

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history and aggregate statistics",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
	dbStatsCmd.Flags().IntVar(&statsLimitFlag, "limit", 20, "Number of recent runs to show")
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.OpenWithMigrations(cfg.GetDatabasePath(), nil)
	if err != nil {
		return errors.Wrap(err, "open run ledger")
	}
	defer database.Close()

	store := db.NewRunStore(database)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	runs, err := store.RecentRuns(ctx, statsLimitFlag)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"stats":       stats,
			"recent_runs": runs,
		})
	}

	display.RenderLedgerStats(stats)
	display.RenderRunHistory(runs)
	return nil
}
