// Package sqlparse extracts table and attribute usage from osquery SQL text.
//
// The extractor is deliberately best-effort: osquery investigation queries are
// free-form SQL (CTEs, nested subselects, JSON helpers) and a strict grammar
// would reject most of the real corpus. Every projection item is kept and
// classified instead of silently dropped, so error rates are measurable.
package sqlparse

import (
	"regexp"
	"strings"
)

var (
	// Every SELECT projection up to its FROM, including subselects.
	selectRe = regexp.MustCompile(`(?is)SELECT\s+(.*?)\s+FROM`)

	// Alias extraction: the word following AS.
	aliasRe = regexp.MustCompile(`(?i)\bAS\s+(\w+)`)

	// Table references after FROM and JOIN keywords.
	fromRe = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)
	joinRe = regexp.MustCompile(`(?i)\bJOIN\s+(\w+)`)

	// CASE expressions produce derived attributes rather than column reads.
	caseRe = regexp.MustCompile(`(?is)CASE\s+WHEN(.+?)END`)

	// Function call remnants that are not attribute reads on their own.
	functionRemnantRe = regexp.MustCompile(`(?i)STRFTIME|JSON_EXTRACT|JSON_VALID|JSON_EACH|GROUP_CONCAT|COALESCE|DATETIME\(|CHAR\(|CAST\(|SPLIT\(`)

	identRe = regexp.MustCompile(`^\w+$`)
)

// WildcardMarker is recorded when a projection selects all columns.
const WildcardMarker = "* (all columns returned)"

// Extraction is the result of scanning one SQL statement.
type Extraction struct {
	Tables     []string    // tables referenced via FROM/JOIN, in scan order, may repeat
	Attributes []Attribute // every projection item, classified
	Derived    []string    // CASE WHEN expressions that synthesize values
	Anomalies  []Anomaly   // structural problems encountered while scanning
}

// Extract scans sql and returns tables, classified attributes, derived
// attributes, and any anomalies. It never fails: a hostile input yields an
// Extraction whose Anomalies describe what could not be understood.
func Extract(sql string) *Extraction {
	ex := &Extraction{}

	if !balancedParens(sql) {
		ex.addAnomaly(AnomalyUnbalancedParens, "unbalanced parentheses in statement")
	}

	segments := selectRe.FindAllStringSubmatch(sql, -1)
	if len(segments) == 0 {
		ex.addAnomaly(AnomalyNoSelect, "no SELECT ... FROM segment found")
	}

	for _, seg := range segments {
		items := splitTopLevel(seg[1])
		if len(items) == 0 {
			ex.addAnomaly(AnomalyEmptyProjection, "SELECT with empty projection")
			continue
		}
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item == "" {
				ex.addAnomaly(AnomalyEmptyProjection, "empty projection item")
				continue
			}
			ex.Attributes = append(ex.Attributes, classifyItem(item))
		}
	}

	for _, m := range fromRe.FindAllStringSubmatch(sql, -1) {
		ex.Tables = append(ex.Tables, m[1])
	}
	for _, m := range joinRe.FindAllStringSubmatch(sql, -1) {
		ex.Tables = append(ex.Tables, m[1])
	}
	if len(ex.Tables) == 0 && len(segments) > 0 {
		ex.addAnomaly(AnomalyNoTable, "no table reference after FROM")
	}

	for _, m := range caseRe.FindAllStringSubmatch(sql, -1) {
		ex.Derived = append(ex.Derived, "description: "+strings.TrimSpace(m[1]))
	}

	return ex
}

func (e *Extraction) addAnomaly(kind AnomalyKind, detail string) {
	e.Anomalies = append(e.Anomalies, Anomaly{Kind: kind, Detail: detail})
}

// UniqueTables returns the sorted set of referenced tables.
func (e *Extraction) UniqueTables() []string {
	return sortedSet(e.Tables)
}

// AttributeNames returns every extracted attribute name in scan order.
func (e *Extraction) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		names = append(names, a.Name)
	}
	return names
}

// UniqueAttributeNames returns the sorted set of extracted attribute names.
func (e *Extraction) UniqueAttributeNames() []string {
	return sortedSet(e.AttributeNames())
}

// splitTopLevel splits a projection list on commas at paren depth zero,
// respecting single-quoted literals. A naive comma split breaks inside
// function arguments like strftime('%Y-%m-%d', ...).
func splitTopLevel(projection string) []string {
	var items []string
	var current strings.Builder
	depth := 0
	inQuote := false

	for i := 0; i < len(projection); i++ {
		c := projection[i]
		switch {
		case c == '\'':
			// '' is an escaped quote inside a literal
			if inQuote && i+1 < len(projection) && projection[i+1] == '\'' {
				current.WriteByte(c)
				current.WriteByte(projection[i+1])
				i++
				continue
			}
			inQuote = !inQuote
			current.WriteByte(c)
		case inQuote:
			current.WriteByte(c)
		case c == '(':
			depth++
			current.WriteByte(c)
		case c == ')':
			depth--
			current.WriteByte(c)
		case c == ',' && depth == 0:
			items = append(items, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		items = append(items, current.String())
	}
	return items
}

// balancedParens reports whether parens balance outside string literals.
func balancedParens(sql string) bool {
	depth := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if inQuote && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
				if depth < 0 {
					return false
				}
			}
		}
	}
	return depth == 0 && !inQuote
}
