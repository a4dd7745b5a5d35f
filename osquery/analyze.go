package osquery

import (
	"math"
	"sort"
	"strings"

	"github.com/teranos/queryscope/logger"
	"github.com/teranos/queryscope/sqlparse"
)

// RecordSummary is the extraction result for one record with a decodable
// query payload.
type RecordSummary struct {
	QueryName        string
	Tables           []string // scan order, may repeat
	UniqueTables     []string // sorted set
	Attributes       []string // scan order, may repeat
	UniqueAttributes []string // sorted set
	Derived          []string // CASE WHEN synthesized values
}

// QueryGroup aggregates all executions of one query name.
type QueryGroup struct {
	QueryName           string   `json:"query_name"`
	Frequency           int      `json:"frequency_of_execution"`
	UniqueTablesQueried []string `json:"unique_tables_queried"`
	Percentage          float64  `json:"percentage_of_execution"`
}

// TableUsage aggregates dataset activity against one table.
type TableUsage struct {
	TableName      string   `json:"table_name"`
	ExecutionCount int      `json:"execution_count"`
	QueryNames     []string `json:"query_names"`
}

// DatasetStats summarizes the case, customer, and region dimensions of the
// dataset. Every loaded record counts here, decodable payload or not.
type DatasetStats struct {
	TotalQueriesAnalyzed int      `json:"total_number_queries_analyzed"`
	UniqueCases          int      `json:"number_of_unique_cases"`
	TotalCases           int      `json:"total_number_of_cases_analyzed"`
	UniqueCustomers      int      `json:"number_of_unique_customers"`
	TotalCustomers       int      `json:"total_number_of_customers_analyzed"`
	RegionList           []string `json:"region_list"`
}

// Analysis is the full result of ingesting one dataset.
type Analysis struct {
	Records        []RecordSummary
	Groups         []QueryGroup // sorted by query name
	Tables         []TableUsage // sorted by table name
	Classification sqlparse.Classification
	ParseStats     *sqlparse.Stats
	Stats          DatasetStats
	Skipped        int // records with no decodable payload
}

// Analyze extracts tables and attributes from every record's SQL, groups
// executions by query name, and computes dataset statistics. Records without
// a decodable payload are counted in Stats and Skipped but produce no
// RecordSummary.
func Analyze(records []Record) *Analysis {
	a := &Analysis{ParseStats: sqlparse.NewStats()}

	var allAttrs []sqlparse.Attribute
	for i := range records {
		rec := &records[i]
		if rec.Payload == nil {
			a.Skipped++
			continue
		}

		// An empty command is a display placeholder, not a parse failure.
		// The record still groups and counts; it just never reaches the
		// extractor.
		if strings.TrimSpace(rec.Payload.Command) == "" {
			a.Records = append(a.Records, RecordSummary{QueryName: rec.Name()})
			continue
		}

		ex := sqlparse.Extract(rec.Command())
		a.ParseStats.Observe(ex)
		allAttrs = append(allAttrs, ex.Attributes...)

		a.Records = append(a.Records, RecordSummary{
			QueryName:        rec.Name(),
			Tables:           ex.Tables,
			UniqueTables:     ex.UniqueTables(),
			Attributes:       ex.AttributeNames(),
			UniqueAttributes: ex.UniqueAttributeNames(),
			Derived:          ex.Derived,
		})
	}

	a.Classification = sqlparse.Classify(allAttrs)
	a.Groups = groupByQueryName(a.Records)
	a.Tables = tableUsage(a.Records)
	a.Stats = datasetStats(records)

	logger.OSQInfow("Dataset analyzed",
		logger.FieldRecords, len(records),
		logger.FieldQueries, len(a.Groups),
		logger.FieldTables, len(a.Tables),
		logger.FieldErrors, a.ParseStats.QueriesWithIssue,
	)
	return a
}

// groupByQueryName folds record summaries into per-name groups. Frequency is
// the number of executions; percentage is frequency over total executions,
// rounded to two decimals before scaling to percent.
func groupByQueryName(summaries []RecordSummary) []QueryGroup {
	type group struct {
		frequency int
		tables    map[string]struct{}
	}
	byName := make(map[string]*group)
	total := 0

	for _, s := range summaries {
		g := byName[s.QueryName]
		if g == nil {
			g = &group{tables: make(map[string]struct{})}
			byName[s.QueryName] = g
		}
		g.frequency++
		total++
		for _, t := range s.UniqueTables {
			g.tables[t] = struct{}{}
		}
	}

	groups := make([]QueryGroup, 0, len(byName))
	for name, g := range byName {
		groups = append(groups, QueryGroup{
			QueryName:           name,
			Frequency:           g.frequency,
			UniqueTablesQueried: sortedKeys(g.tables),
			Percentage:          executionPercentage(g.frequency, total),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].QueryName < groups[j].QueryName })
	return groups
}

// executionPercentage computes round(frequency/total, 2) * 100, matching the
// legacy report's rounding. The legacy round is half-to-even, so 1 of 8
// executions is 12, not 13.
func executionPercentage(frequency, total int) float64 {
	if total == 0 {
		return 0
	}
	ratio := float64(frequency) / float64(total)
	return math.RoundToEven(ratio * 100)
}

// tableUsage inverts the record summaries into per-table activity. A table
// counts one execution per record that references it.
func tableUsage(summaries []RecordSummary) []TableUsage {
	type usage struct {
		executions int
		queries    map[string]struct{}
	}
	byTable := make(map[string]*usage)

	for _, s := range summaries {
		for _, t := range s.UniqueTables {
			u := byTable[t]
			if u == nil {
				u = &usage{queries: make(map[string]struct{})}
				byTable[t] = u
			}
			u.executions++
			u.queries[s.QueryName] = struct{}{}
		}
	}

	tables := make([]TableUsage, 0, len(byTable))
	for name, u := range byTable {
		tables = append(tables, TableUsage{
			TableName:      name,
			ExecutionCount: u.executions,
			QueryNames:     sortedKeys(u.queries),
		})
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].TableName < tables[j].TableName })
	return tables
}

// datasetStats computes case, customer, and region counts across every
// loaded record.
func datasetStats(records []Record) DatasetStats {
	uniqueCases := make(map[string]struct{})
	uniqueCustomers := make(map[string]struct{})
	regions := make(map[string]struct{})
	totalCases := 0

	for i := range records {
		rec := &records[i]
		for _, c := range rec.Cases() {
			uniqueCases[c] = struct{}{}
			totalCases++
		}
		uniqueCustomers[strings.TrimSpace(rec.CustomerID)] = struct{}{}
		regions[strings.TrimSpace(rec.Region)] = struct{}{}
	}

	return DatasetStats{
		TotalQueriesAnalyzed: len(records),
		UniqueCases:          len(uniqueCases),
		TotalCases:           totalCases,
		UniqueCustomers:      len(uniqueCustomers),
		TotalCustomers:       len(records),
		RegionList:           sortedKeys(regions),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
