package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/queryscope/db"
	"github.com/teranos/queryscope/display"
	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/osquery"
	"github.com/teranos/queryscope/sym"
)

// OsqueryCmd represents the osquery command
var OsqueryCmd = &cobra.Command{
	Use:   "osquery",
	Short: sym.OSQ + " Ingest a case-management osquery export",
	Long: sym.OSQ + ` osquery — Ingest a case-management osquery export

Loads a CSV export whose Query column embeds osquery execution payloads as
JSON, extracts table and attribute usage from each SQL command, and writes
a summary JSON report plus a per-query summary CSV. Records with
undecodable payloads are counted and skipped, never fatal.

Examples:
  queryscope osquery --input combined.csv          # Full ingestion run
  queryscope osquery --input combined.csv --nrows 100
  queryscope osquery --watch                       # Re-run when the export changes`,
	RunE: runOsquery,
}

func init() {
	OsqueryCmd.Flags().String("input", "", "Combined case/query CSV export (defaults to osquery.path in config)")
	OsqueryCmd.Flags().String("output", "", "Summary JSON output path (defaults to osquery.summary_path)")
	OsqueryCmd.Flags().String("summary-csv", "", "Per-query summary CSV path (defaults to osquery.query_summary_csv)")
	OsqueryCmd.Flags().Int("nrows", 0, "Load at most N data rows (0 = all, defaults to osquery.load_nrows)")
	OsqueryCmd.Flags().Bool("watch", false, "Watch the input file and re-run on change")
}

func runOsquery(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	input := flagOrConfig(cmd, "input", cfg.Osquery.Path)
	if input == "" {
		return errors.WithHint(errors.ErrNoInput,
			"pass --input or set osquery.path in your config file")
	}
	output := flagOrConfig(cmd, "output", cfg.Osquery.SummaryPath)
	summaryCSV := flagOrConfig(cmd, "summary-csv", cfg.Osquery.QuerySummaryCSV)

	nrows := cfg.Osquery.LoadNRows
	if cmd.Flags().Changed("nrows") {
		nrows, _ = cmd.Flags().GetInt("nrows")
	}

	run := func(path string) error {
		started := time.Now()

		records, err := osquery.LoadRecords(path, nrows)
		if err != nil {
			return err
		}
		analysis := osquery.Analyze(records)

		summary := osquery.BuildSummary(analysis, started)
		if err := summary.WriteJSON(output); err != nil {
			return err
		}
		if summaryCSV != "" {
			if err := analysis.WriteQuerySummaryCSV(summaryCSV); err != nil {
				return err
			}
		}

		if display.ShouldOutputJSON(cmd) {
			if err := display.OutputJSON(summary); err != nil {
				return err
			}
		} else {
			display.RenderOsqueryAnalysis(analysis)
		}

		recordRun(cfg, db.Run{
			Kind:        db.RunKindOsquery,
			InputPath:   path,
			RecordCount: len(records),
			ErrorCount:  analysis.ParseStats.QueriesWithIssue + analysis.Skipped,
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
