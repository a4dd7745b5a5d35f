package sqlparse

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// AnomalyKind categorizes structural problems found while scanning SQL.
type AnomalyKind string

const (
	AnomalyNoSelect         AnomalyKind = "no_select"         // no SELECT ... FROM segment
	AnomalyEmptyProjection  AnomalyKind = "empty_projection"  // SELECT with nothing to project
	AnomalyNoTable          AnomalyKind = "no_table"          // no table reference after FROM
	AnomalyUnbalancedParens AnomalyKind = "unbalanced_parens" // parens do not balance
)

// Anomaly records one structural problem. Anomalies never abort extraction;
// they are accumulated so the overall error rate can be published.
type Anomaly struct {
	Kind   AnomalyKind `json:"kind"`
	Detail string      `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Kind, a.Detail)
}

// FormatTerminal renders the anomaly with color for CLI output.
func (a Anomaly) FormatTerminal() string {
	switch a.Kind {
	case AnomalyNoSelect, AnomalyUnbalancedParens:
		return pterm.Red(a.String())
	default:
		return pterm.Yellow(a.String())
	}
}

// Stats accumulates extraction outcomes across a dataset of queries.
type Stats struct {
	QueriesScanned   int                 `json:"queries_scanned"`
	QueriesWithIssue int                 `json:"queries_with_issues"`
	AnomalyCounts    map[AnomalyKind]int `json:"anomaly_counts"`
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{AnomalyCounts: make(map[AnomalyKind]int)}
}

// Observe records the outcome of one extraction.
func (s *Stats) Observe(ex *Extraction) {
	s.QueriesScanned++
	if len(ex.Anomalies) > 0 {
		s.QueriesWithIssue++
	}
	for _, a := range ex.Anomalies {
		s.AnomalyCounts[a.Kind]++
	}
}

// ErrorRate returns the fraction of scanned queries that produced at least
// one anomaly, in [0, 1]. Zero queries scanned yields 0.
func (s *Stats) ErrorRate() float64 {
	if s.QueriesScanned == 0 {
		return 0
	}
	return float64(s.QueriesWithIssue) / float64(s.QueriesScanned)
}

// Summary renders a one-line human summary.
func (s *Stats) Summary() string {
	if s.QueriesScanned == 0 {
		return "no queries scanned"
	}
	parts := []string{
		fmt.Sprintf("%d queries scanned", s.QueriesScanned),
		fmt.Sprintf("%d with issues (%.1f%%)", s.QueriesWithIssue, s.ErrorRate()*100),
	}
	return strings.Join(parts, ", ")
}
