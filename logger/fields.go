package logger

// Standard field names for consistent structured logging across queryscope.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID = "run_id"
	FieldKind  = "kind"

	// Inputs and outputs
	FieldInput  = "input"
	FieldOutput = "output"
	FieldConfig = "config"

	// Counts
	FieldRecords    = "records"
	FieldQueries    = "queries"
	FieldTables     = "tables"
	FieldAttributes = "attributes"
	FieldEventTypes = "event_types"
	FieldErrors     = "errors"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Symbols
	FieldSymbol = "symbol"
)
