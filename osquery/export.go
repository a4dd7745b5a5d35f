package osquery

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"time"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/logger"
	"github.com/teranos/queryscope/sqlparse"
)

// QueryAnalysis is the grouped query/table section of the summary document.
type QueryAnalysis struct {
	Queries []QueryGroup `json:"queries"`
	Tables  []TableUsage `json:"tables"`
}

// ParseReport publishes extraction anomaly counts and the overall error rate.
type ParseReport struct {
	*sqlparse.Stats
	SkippedRecords int     `json:"records_with_invalid_payload"`
	ErrorRate      float64 `json:"error_rate"`
}

// summaryBody is the inner object keyed "osquery_summary". The stats and
// query-summary keys are preserved from the legacy report format.
type summaryBody struct {
	GeneratedAt    string                  `json:"generated_at"`
	Stats          DatasetStats            `json:"os_query_data_analysis_stats"`
	QuerySummary   QueryAnalysis           `json:"os_query_input_query_summary"`
	Classification sqlparse.Classification `json:"attribute_classification"`
	ParseReport    ParseReport             `json:"parse_error_report"`
}

// Summary is the exported ingestion analysis document.
type Summary struct {
	OsquerySummary summaryBody `json:"osquery_summary"`
}

// BuildSummary assembles the exported document from an analysis.
func BuildSummary(a *Analysis, generatedAt time.Time) *Summary {
	return &Summary{
		OsquerySummary: summaryBody{
			GeneratedAt:    generatedAt.UTC().Format(time.RFC3339),
			Stats:          a.Stats,
			QuerySummary:   QueryAnalysis{Queries: a.Groups, Tables: a.Tables},
			Classification: a.Classification,
			ParseReport: ParseReport{
				Stats:          a.ParseStats,
				SkippedRecords: a.Skipped,
				ErrorRate:      a.ParseStats.ErrorRate(),
			},
		},
	}
}

// WriteJSON writes the summary document to path.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode osquery summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write osquery summary to %s", path)
	}

	logger.OSQInfow("Wrote summary",
		logger.FieldOutput, path,
		logger.FieldQueries, len(s.OsquerySummary.QuerySummary.Queries),
	)
	return nil
}

// querySummaryHeader matches the legacy per-query CSV columns.
var querySummaryHeader = []string{
	"Query Name",
	"OS Query Table",
	"unique_osquery_table",
	"Query Attributes",
	"unique_osquery_attributes",
}

// WriteQuerySummaryCSV writes one row per analyzed record. List cells keep
// the legacy bracketed rendering so existing consumers keep parsing.
func (a *Analysis) WriteQuerySummaryCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create query summary csv %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(querySummaryHeader); err != nil {
		return errors.Wrap(err, "write query summary header")
	}
	for _, rec := range a.Records {
		row := []string{
			rec.QueryName,
			renderListLiteral(rec.Tables),
			renderListLiteral(rec.UniqueTables),
			renderListLiteral(rec.Attributes),
			renderListLiteral(rec.UniqueAttributes),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "write query summary row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush query summary csv")
	}

	logger.OSQInfow("Wrote query summary",
		logger.FieldOutput, path,
		logger.FieldRecords, len(a.Records),
	)
	return nil
}
