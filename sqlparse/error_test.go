package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsObserve(t *testing.T) {
	s := NewStats()

	s.Observe(Extract("SELECT * FROM uptime"))
	s.Observe(Extract("PRAGMA table_info(users)"))
	s.Observe(Extract("SELECT name FROM processes"))

	assert.Equal(t, 3, s.QueriesScanned)
	assert.Equal(t, 1, s.QueriesWithIssue)
	assert.Equal(t, 1, s.AnomalyCounts[AnomalyNoSelect])
	assert.InDelta(t, 1.0/3.0, s.ErrorRate(), 1e-9)
}

func TestStatsErrorRateEmpty(t *testing.T) {
	s := NewStats()
	assert.Zero(t, s.ErrorRate())
	assert.Equal(t, "no queries scanned", s.Summary())
}

func TestStatsSummary(t *testing.T) {
	s := NewStats()
	s.Observe(Extract("SELECT name FROM processes"))
	s.Observe(Extract("not sql at all"))

	summary := s.Summary()
	assert.Contains(t, summary, "2 queries scanned")
	assert.Contains(t, summary, "1 with issues")
	assert.Contains(t, summary, "50.0%")
}

func TestAnomalyString(t *testing.T) {
	a := Anomaly{Kind: AnomalyNoTable, Detail: "no table reference after FROM"}
	assert.Equal(t, "no_table: no table reference after FROM", a.String())
}

func TestAnomalyFormatTerminal(t *testing.T) {
	// Severity split: structural failures are red, degraded results yellow.
	fatal := Anomaly{Kind: AnomalyNoSelect, Detail: "d"}
	soft := Anomaly{Kind: AnomalyNoTable, Detail: "d"}

	require.NotEmpty(t, fatal.FormatTerminal())
	require.NotEmpty(t, soft.FormatTerminal())
	assert.Contains(t, fatal.FormatTerminal(), "no_select")
	assert.Contains(t, soft.FormatTerminal(), "no_table")
}

func TestClassifyDisjointAndComplete(t *testing.T) {
	ex := Extract(windowsEventsSQL)
	ex2 := Extract("SELECT * FROM uptime")
	attrs := append(append([]Attribute{}, ex.Attributes...), ex2.Attributes...)

	c := Classify(attrs)

	total := len(c.Clean) + len(c.Polluted) + len(c.Invalid) + len(c.Wildcard)
	assert.Equal(t, len(c.Unique), total, "buckets must partition the unique name set")

	seen := map[string]int{}
	for _, bucket := range [][]string{c.Clean, c.Polluted, c.Invalid, c.Wildcard} {
		for _, name := range bucket {
			seen[name]++
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "attribute %q appears in %d buckets", name, n)
	}
}
