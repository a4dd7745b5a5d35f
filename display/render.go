package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/queryscope/db"
	"github.com/teranos/queryscope/fdh"
	"github.com/teranos/queryscope/osquery"
)

// RenderFDHAnalysis prints the schema analysis as terminal tables.
func RenderFDHAnalysis(a *fdh.Analysis) {
	pterm.DefaultSection.Println("FDH schema analysis")

	rows := pterm.TableData{{"Event type", "Attributes"}}
	for _, eventType := range a.EventTypes {
		rows = append(rows, []string{eventType, strconv.Itoa(a.AttributeCounts[eventType])})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	pterm.Printf("%s unique attributes, %s shared across event types\n",
		pterm.Green(strconv.Itoa(a.UniqueCount())),
		pterm.Yellow(strconv.Itoa(a.DuplicateCount())),
	)
}

// RenderOsqueryAnalysis prints the ingestion analysis: per-query frequency,
// table usage, classification sizes, and any parse anomalies.
func RenderOsqueryAnalysis(a *osquery.Analysis) {
	pterm.DefaultSection.Println("osquery ingestion analysis")

	rows := pterm.TableData{{"Query", "Executions", "% of total", "Tables"}}
	for _, g := range a.Groups {
		rows = append(rows, []string{
			g.QueryName,
			strconv.Itoa(g.Frequency),
			fmt.Sprintf("%.0f%%", g.Percentage),
			strings.Join(g.UniqueTablesQueried, ", "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	tableRows := pterm.TableData{{"Table", "Executions", "Queries"}}
	for _, u := range a.Tables {
		tableRows = append(tableRows, []string{
			u.TableName,
			strconv.Itoa(u.ExecutionCount),
			strings.Join(u.QueryNames, ", "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableRows).Render()

	c := a.Classification
	pterm.Printf("attributes: %s clean, %s polluted, %s invalid, %s wildcard\n",
		pterm.Green(strconv.Itoa(len(c.Clean))),
		pterm.Yellow(strconv.Itoa(len(c.Polluted))),
		pterm.Red(strconv.Itoa(len(c.Invalid))),
		pterm.Cyan(strconv.Itoa(len(c.Wildcard))),
	)

	if a.ParseStats.QueriesWithIssue > 0 || a.Skipped > 0 {
		pterm.Println(pterm.Yellow(a.ParseStats.Summary()))
		if a.Skipped > 0 {
			pterm.Println(pterm.Yellow(fmt.Sprintf("%d records with undecodable query payloads", a.Skipped)))
		}
	}
}

// RenderRunHistory prints recent ledger runs, newest first.
func RenderRunHistory(runs []db.Run) {
	if len(runs) == 0 {
		pterm.Println("no recorded runs")
		return
	}

	rows := pterm.TableData{{"Started", "Kind", "Input", "Records", "Errors", "Duration"}}
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.Kind,
			run.InputPath,
			strconv.Itoa(run.RecordCount),
			renderErrorCount(run.ErrorCount),
			run.Duration.String(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// RenderLedgerStats prints the aggregate run history.
func RenderLedgerStats(stats *db.LedgerStats) {
	pterm.DefaultSection.Println("Run history")
	pterm.Printf("total runs: %d (fdh: %d, osquery: %d)\n",
		stats.TotalRuns, stats.RunsByKind[db.RunKindFDH], stats.RunsByKind[db.RunKindOsquery])
	pterm.Printf("records analyzed: %d, parse errors: %s\n",
		stats.TotalRecords, renderErrorCount(stats.TotalErrors))
	if !stats.LastRunAt.IsZero() {
		pterm.Printf("last run: %s\n", stats.LastRunAt.Local().Format(time.DateTime))
	}
}

func renderErrorCount(n int) string {
	if n == 0 {
		return pterm.Green("0")
	}
	return pterm.Red(strconv.Itoa(n))
}
