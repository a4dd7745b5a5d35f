package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/queryscope/config"
	"github.com/teranos/queryscope/db"
	"github.com/teranos/queryscope/logger"
)

// LoadConfig resolves configuration for a command: an explicit --config file
// wins, otherwise the merged system/user/project/env configuration.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Root().PersistentFlags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// recordRun appends a run to the SQLite ledger. Ledger failures are logged
// and swallowed: history is best-effort and never fails an analysis.
func recordRun(cfg *config.Config, run db.Run) {
	database, err := db.OpenWithMigrations(cfg.GetDatabasePath(), nil)
	if err != nil {
		logger.Warnw("Skipping run ledger", logger.FieldError, err)
		return
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.NewRunStore(database).RecordRun(ctx, run); err != nil {
		logger.Warnw("Failed to record run", logger.FieldError, err)
	}
}

// flagOrConfig prefers a set flag value over the configured one.
func flagOrConfig(cmd *cobra.Command, flag, configured string) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		return value
	}
	return configured
}
