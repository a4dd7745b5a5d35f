package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const windowsEventsSQL = `
SELECT
    STRFTIME('%Y-%m-%dT%H:%M:%SZ', DATETIME(time, 'unixepoch')) AS date_time,
    eventid AS event_id,
    'User authentication succeeded' AS description,
    JSON_EXTRACT(data, '$.UserData.Param1') AS username,
    JSON_EXTRACT(data, '$.UserData.Param3') AS source_ip,
    '-' AS process_name
FROM
    sophos_windows_events
WHERE
    eventid = 1149
    AND time >= 1733710719
`

const servicesJoinSQL = `
SELECT s.name, s.service_type, s.display_name, s.status, s.start_type, s.path, s.user_account,
p.name, p.cmdline, h.sha1
FROM services AS s
LEFT JOIN processes AS p ON s.pid = p.pid
LEFT JOIN hash AS h ON s.path = h.path
`

const registryRunKeysSQL = `
SELECT path, data, type, strftime('%Y-%m-%d %H:%M:%S',datetime(mtime,'unixepoch')) as modified_time_local
FROM registry
WHERE key LIKE 'HKEY_USERS\%\Software\Microsoft\Windows\CurrentVersion\Run'
`

func TestExtractAliasedProjection(t *testing.T) {
	ex := Extract(windowsEventsSQL)

	require.Empty(t, ex.Anomalies)
	assert.Equal(t, []string{"sophos_windows_events"}, ex.UniqueTables())

	names := ex.AttributeNames()
	assert.Equal(t, []string{
		"date_time", "event_id", "description", "username", "source_ip", "process_name",
	}, names)

	// eventid AS event_id is the only projection whose expression is itself
	// a bare column; everything else carries SQL residue
	c := Classify(ex.Attributes)
	assert.Equal(t, []string{"event_id"}, c.Clean)
	assert.ElementsMatch(t, []string{
		"date_time", "description", "username", "source_ip", "process_name",
	}, c.Polluted)
	assert.Empty(t, c.Invalid)
	assert.Empty(t, c.Wildcard)
}

func TestExtractQualifiedColumnsAndJoins(t *testing.T) {
	ex := Extract(servicesJoinSQL)

	require.Empty(t, ex.Anomalies)
	assert.Equal(t, []string{"hash", "processes", "services"}, ex.UniqueTables())

	c := Classify(ex.Attributes)
	assert.Equal(t, []string{
		"cmdline", "display_name", "name", "path", "service_type",
		"sha1", "start_type", "status", "user_account",
	}, c.Unique)
	assert.Empty(t, c.Invalid)
}

func TestExtractWildcard(t *testing.T) {
	ex := Extract("SELECT * FROM uptime WHERE 1=0")

	require.Empty(t, ex.Anomalies)
	assert.Equal(t, []string{"uptime"}, ex.UniqueTables())
	require.Len(t, ex.Attributes, 1)
	assert.Equal(t, KindWildcard, ex.Attributes[0].Kind)
	assert.Equal(t, WildcardMarker, ex.Attributes[0].Name)
}

func TestExtractFunctionArgsSurviveCommaSplit(t *testing.T) {
	ex := Extract(registryRunKeysSQL)

	require.Empty(t, ex.Anomalies)
	assert.Equal(t, []string{"registry"}, ex.UniqueTables())

	// The strftime call contains a comma; a naive split would shear it into
	// two garbage items. Depth-aware splitting keeps it whole.
	names := ex.AttributeNames()
	assert.Equal(t, []string{"path", "data", "type", "modified_time_local"}, names)

	c := Classify(ex.Attributes)
	assert.ElementsMatch(t, []string{"path", "data", "type"}, c.Clean)
	assert.Equal(t, []string{"modified_time_local"}, c.Polluted)
}

func TestExtractCaseWhenDerived(t *testing.T) {
	sql := `
SELECT
    swtj.url,
    CASE WHEN swtj.threat_name != '' THEN 'blocked' ELSE 'allowed' END AS decision
FROM sophos_web_transaction_journal AS swtj
`
	ex := Extract(sql)
	require.Len(t, ex.Derived, 1)
	assert.Contains(t, ex.Derived[0], "description: ")
	assert.Contains(t, ex.Derived[0], "threat_name")
}

func TestExtractNoSelect(t *testing.T) {
	ex := Extract("PRAGMA table_info(users)")

	require.Len(t, ex.Anomalies, 1)
	assert.Equal(t, AnomalyNoSelect, ex.Anomalies[0].Kind)
	assert.Empty(t, ex.Attributes)
}

func TestExtractUnbalancedParens(t *testing.T) {
	ex := Extract("SELECT strftime('%Y', time FROM events")

	kinds := make([]AnomalyKind, 0, len(ex.Anomalies))
	for _, a := range ex.Anomalies {
		kinds = append(kinds, a.Kind)
	}
	assert.Contains(t, kinds, AnomalyUnbalancedParens)
}

func TestExtractComplexCTEDoesNotPanic(t *testing.T) {
	// A realistic investigation query: CTE over VALUES, correlated
	// subselects, JSON helpers. Best-effort extraction must survive it.
	sql := `
WITH sxl_categories (id, name) AS (
    VALUES (0, 'Uncategorized'), (19, 'Hacking')
)
SELECT
    STRFTIME('%Y-%m-%dT%H:%M:%SZ', DATETIME(swtj.time, 'unixepoch')) AS date_time,
    (SELECT username FROM users WHERE uuid = swfj.owner) AS user,
    swtj.url,
    COALESCE((SELECT name FROM sxl_categories WHERE id = swtj.sxl_category), swtj.sxl_category) AS category
FROM
    sophos_web_transaction_journal AS swtj
LEFT JOIN
    sophos_web_flow_journal AS swfj ON swfj.flow_id = swtj.flow_id
WHERE
    swtj.time >= 1733746873
`
	ex := Extract(sql)

	assert.NotEmpty(t, ex.Attributes)
	tables := ex.UniqueTables()
	assert.Contains(t, tables, "sophos_web_transaction_journal")
	assert.Contains(t, tables, "sophos_web_flow_journal")
	assert.Contains(t, tables, "users")
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain list",
			in:   "a, b, c",
			want: []string{"a", " b", " c"},
		},
		{
			name: "comma inside function args",
			in:   "strftime('%Y-%m-%d', time), path",
			want: []string{"strftime('%Y-%m-%d', time)", " path"},
		},
		{
			name: "comma inside quoted literal",
			in:   "'a, b' AS label, path",
			want: []string{"'a, b' AS label", " path"},
		},
		{
			name: "escaped quote in literal",
			in:   "'Kid''s Sites' AS label, path",
			want: []string{"'Kid''s Sites' AS label", " path"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTopLevel(tt.in))
		})
	}
}

func TestBalancedParens(t *testing.T) {
	assert.True(t, balancedParens("SELECT a FROM t"))
	assert.True(t, balancedParens("SELECT f(a, g(b)) FROM t"))
	assert.True(t, balancedParens("SELECT '(' FROM t"))
	assert.False(t, balancedParens("SELECT f(a FROM t"))
	assert.False(t, balancedParens("SELECT f a) FROM t"))
}
