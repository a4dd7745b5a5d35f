package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/queryscope/db"
	"github.com/teranos/queryscope/display"
	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/fdh"
	"github.com/teranos/queryscope/logger"
	"github.com/teranos/queryscope/sym"
	"github.com/teranos/queryscope/watch"
)

// FDHCmd represents the fdh command
var FDHCmd = &cobra.Command{
	Use:   "fdh",
	Short: sym.FDH + " Analyze an FDH schema export",
	Long: sym.FDH + ` fdh — Analyze an FDH schema export

Parses an FDH schema JSON file, classifies every attribute as unique to one
event type or shared across several, and writes a summary JSON report plus
an optional aggregate CSV table.

Examples:
  queryscope fdh --input fdh.json                  # Analyze and write fdh_summary.json
  queryscope fdh --input fdh.json --csv agg.csv    # Also dump the aggregate table
  queryscope fdh --watch                           # Re-run when the schema changes`,
	RunE: runFDH,
}

func init() {
	FDHCmd.Flags().String("input", "", "FDH schema JSON file (defaults to fdh.path in config)")
	FDHCmd.Flags().String("output", "", "Summary JSON output path (defaults to fdh.summary_path)")
	FDHCmd.Flags().String("csv", "", "Aggregate CSV output path (defaults to fdh.aggregate_csv_path)")
	FDHCmd.Flags().Bool("no-raw", false, "Omit per-event-type raw attribute maps from the summary")
	FDHCmd.Flags().Bool("watch", false, "Watch the input file and re-run on change")
}

func runFDH(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	input := flagOrConfig(cmd, "input", cfg.FDH.Path)
	if input == "" {
		return errors.WithHint(errors.ErrNoInput,
			"pass --input or set fdh.path in your config file")
	}
	output := flagOrConfig(cmd, "output", cfg.FDH.SummaryPath)
	csvPath := flagOrConfig(cmd, "csv", cfg.FDH.AggregateCSVPath)

	includeRaw := cfg.FDH.IncludeRaw
	if noRaw, _ := cmd.Flags().GetBool("no-raw"); noRaw {
		includeRaw = false
	}

	run := func(path string) error {
		started := time.Now()

		schema, err := fdh.LoadSchema(path)
		if err != nil {
			return err
		}
		analysis := fdh.Analyze(schema)

		summary := fdh.BuildSummary(analysis, includeRaw)
		if err := summary.WriteJSON(output); err != nil {
			return err
		}
		if csvPath != "" {
			if err := analysis.WriteAggregateCSV(csvPath); err != nil {
				return err
			}
		}

		if display.ShouldOutputJSON(cmd) {
			if err := display.OutputJSON(summary); err != nil {
				return err
			}
		} else {
			display.RenderFDHAnalysis(analysis)
		}

		recordRun(cfg, db.Run{
			Kind:        db.RunKindFDH,
			InputPath:   path,
			RecordCount: len(analysis.Attributes),
			Duration:    time.Since(started),
			StartedAt:   started.UTC(),
		})
		return nil
	}

	if err := run(input); err != nil {
		return err
	}

	if watchFlag, _ := cmd.Flags().GetBool("watch"); watchFlag {
		return watchInput(input, run)
	}
	return nil
}

// watchInput blocks re-running the analysis on input changes until
// interrupted.
func watchInput(input string, run watch.RunFunc) error {
	fw, err := watch.NewFileWatcher(input, run)
	if err != nil {
		return errors.Wrap(err, "start input watcher")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fw.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Infow("Watch stopped")
	return nil
}
