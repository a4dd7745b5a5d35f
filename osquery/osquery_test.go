package osquery

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/sqlparse"
)

func queryCell(t *testing.T, name, command string) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"name":          name,
		"command":       command,
		"principalType": "Device",
		"queryId":       "qid-" + name,
		"queryType":     "live",
		"categories":    []map[string]string{{"name": "endpoint"}, {"name": "triage"}},
	})
	require.NoError(t, err)
	return string(data)
}

// writeTestCSV builds the combined case/query export fixture: two executions
// of ProcessHunt, one SocketScan, and one row with a broken payload.
func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combined.csv")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"Query", "Possible Cases", "Customer ID", "Region"},
		{queryCell(t, "ProcessHunt", "SELECT pid, name FROM processes"), "['C-1', 'C-2']", "cust-a", "us-east"},
		{queryCell(t, "ProcessHunt", "SELECT p.pid AS process_id, u.username FROM processes p JOIN users u ON p.uid = u.uid"), "['C-2']", "cust-b", "eu-west"},
		{queryCell(t, "SocketScan", "SELECT * FROM process_open_sockets"), "[]", "cust-a", "us-east"},
		{"{not json", "", "cust-c", "ap-south"},
	}
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

func TestLoadRecords(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 0)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "ProcessHunt", records[0].Name())
	assert.Equal(t, "qid-ProcessHunt", records[0].QueryID())
	assert.Equal(t, "Device", records[0].PrincipalType())
	assert.Equal(t, "live", records[0].QueryType())
	assert.Equal(t, "endpoint, triage", records[0].CategoryNames())

	// Broken payload: record survives with legacy placeholders
	require.Nil(t, records[3].Payload)
	assert.Equal(t, UnnamedQuery, records[3].Name())
	assert.Equal(t, NoCommand, records[3].Command())
	assert.Equal(t, NoCategories, records[3].CategoryNames())
}

func TestLoadRecordsRowLimit(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.csv"), 0)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLoadRecordsMissingQueryColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Customer ID,Region\ncust-a,us-east\n"), 0o644))

	_, err := LoadRecords(path, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedRecord))
}

func TestCommandRestoresEscapedNewlines(t *testing.T) {
	rec := Record{Payload: &QueryPayload{Command: `SELECT pid\nFROM processes`}}
	assert.Equal(t, "SELECT pid\nFROM processes", rec.Command())
}

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{name: "two items", in: "['C-1', 'C-2']", want: []string{"C-1", "C-2"}},
		{name: "empty list", in: "[]", want: []string{}},
		{name: "double quotes", in: `["C-9"]`, want: []string{"C-9"}},
		{name: "not a list", in: "C-1", wantErr: true},
		{name: "blank", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseListLiteral(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderListLiteral(t *testing.T) {
	assert.Equal(t, "[]", renderListLiteral(nil))
	assert.Equal(t, "['processes', 'users']", renderListLiteral([]string{"processes", "users"}))
}

func TestAnalyze(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 0)
	require.NoError(t, err)

	a := Analyze(records)

	assert.Equal(t, 1, a.Skipped)
	require.Len(t, a.Records, 3)

	require.Len(t, a.Groups, 2)
	hunt, scan := a.Groups[0], a.Groups[1]
	assert.Equal(t, "ProcessHunt", hunt.QueryName)
	assert.Equal(t, 2, hunt.Frequency)
	assert.Equal(t, []string{"processes", "users"}, hunt.UniqueTablesQueried)
	assert.InDelta(t, 67.0, hunt.Percentage, 0.001)
	assert.Equal(t, "SocketScan", scan.QueryName)
	assert.Equal(t, 1, scan.Frequency)
	assert.InDelta(t, 33.0, scan.Percentage, 0.001)

	require.Len(t, a.Tables, 3)
	byTable := map[string]TableUsage{}
	for _, u := range a.Tables {
		byTable[u.TableName] = u
	}
	assert.Equal(t, 2, byTable["processes"].ExecutionCount)
	assert.Equal(t, []string{"ProcessHunt"}, byTable["processes"].QueryNames)
	assert.Equal(t, 1, byTable["process_open_sockets"].ExecutionCount)
	assert.Equal(t, []string{"SocketScan"}, byTable["process_open_sockets"].QueryNames)

	assert.Equal(t, DatasetStats{
		TotalQueriesAnalyzed: 4,
		UniqueCases:          2,
		TotalCases:           3,
		UniqueCustomers:      3,
		TotalCustomers:       4,
		RegionList:           []string{"ap-south", "eu-west", "us-east"},
	}, a.Stats)

	assert.ElementsMatch(t, []string{"name", "pid", "username"}, a.Classification.Clean)
	assert.Equal(t, []string{"process_id"}, a.Classification.Polluted)
	assert.Equal(t, []string{sqlparse.WildcardMarker}, a.Classification.Wildcard)

	assert.Equal(t, 3, a.ParseStats.QueriesScanned)
}

func TestAnalyzeEmptyCommandIsNotParseError(t *testing.T) {
	records := []Record{
		{Payload: &QueryPayload{Name: "NoOp"}},
		{Payload: &QueryPayload{Name: "ProcessHunt", Command: "SELECT pid FROM processes"}},
	}

	a := Analyze(records)

	assert.Zero(t, a.Skipped)
	require.Len(t, a.Records, 2)
	assert.Empty(t, a.Records[0].Tables)

	// Only the record with SQL reaches the extractor
	assert.Equal(t, 1, a.ParseStats.QueriesScanned)
	assert.Zero(t, a.ParseStats.QueriesWithIssue)

	require.Len(t, a.Groups, 2)
	assert.Equal(t, "NoOp", a.Groups[0].QueryName)
	assert.Equal(t, 1, a.Groups[0].Frequency)
}

func TestExecutionPercentage(t *testing.T) {
	assert.InDelta(t, 67.0, executionPercentage(2, 3), 0.001)
	assert.InDelta(t, 33.0, executionPercentage(1, 3), 0.001)
	assert.InDelta(t, 100.0, executionPercentage(5, 5), 0.001)
	assert.Zero(t, executionPercentage(1, 0))

	// Half-to-even at the second decimal: 0.125 rounds down, 0.375 rounds up
	assert.InDelta(t, 12.0, executionPercentage(1, 8), 0.001)
	assert.InDelta(t, 38.0, executionPercentage(3, 8), 0.001)
}

func TestFrequenciesSumToTotal(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 0)
	require.NoError(t, err)

	a := Analyze(records)
	sum := 0
	for _, g := range a.Groups {
		sum += g.Frequency
	}
	assert.Equal(t, len(a.Records), sum)
}

func TestWriteJSON(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "osquery_summary.json")
	s := BuildSummary(Analyze(records), time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	body, ok := decoded["osquery_summary"]
	require.True(t, ok)
	assert.Contains(t, body, "os_query_data_analysis_stats")
	assert.Contains(t, body, "os_query_input_query_summary")
	assert.Contains(t, body, "attribute_classification")
	assert.Contains(t, body, "parse_error_report")
	assert.Contains(t, body, "generated_at")
}

func TestWriteQuerySummaryCSV(t *testing.T) {
	records, err := LoadRecords(writeTestCSV(t), 0)
	require.NoError(t, err)
	a := Analyze(records)

	path := filepath.Join(t.TempDir(), "query_summary.csv")
	require.NoError(t, a.WriteQuerySummaryCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three analyzable records

	assert.Equal(t, querySummaryHeader, rows[0])
	assert.Equal(t, "ProcessHunt", rows[1][0])
	assert.Equal(t, "['processes']", rows[1][1])
	assert.Equal(t, "['pid', 'name']", rows[1][3])
	assert.Equal(t, "['name', 'pid']", rows[1][4])
}
