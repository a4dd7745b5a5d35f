// Package sym defines canonical symbols for queryscope operations and system
// markers. These symbols are stable across CLI output, logs, and documentation.
package sym

// Glyph string constants — the visual expression of each operation.
const (
	FDH   = "⊞" // fdh — schema analysis (event types and attributes)
	OSQ   = "⨳" // osquery — ingest case-management query exports
	SQL   = "⋈" // sql — query text extraction
	DB    = "⛁" // db — run ledger and database operations
	Watch = "◉" // watch — re-run analysis on input change
	Out   = "⟶" // out — summary/report emission
)

// Names maps each glyph to its operation name.
var Names = map[string]string{
	FDH:   "fdh",
	OSQ:   "osquery",
	SQL:   "sql",
	DB:    "db",
	Watch: "watch",
	Out:   "out",
}

// Name returns the operation name for a glyph, or "" if unknown.
func Name(glyph string) string {
	return Names[glyph]
}
