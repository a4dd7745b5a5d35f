package logger

import (
	"github.com/teranos/queryscope/sym"
)

// Symbol-aware logging helpers.
// These functions log with the symbol as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Infow(sym.FDH + " Schema loaded", "event_types", n)
//
//	// Use:
//	logger.FDHInfow("Schema loaded", "event_types", n)
//
// This makes logs queryable by symbol and keeps messages clean.

// FDHInfow logs an info message with the FDH symbol (⊞)
func FDHInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.FDH}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// FDHDebugw logs a debug message with the FDH symbol (⊞)
func FDHDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.FDH}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// OSQInfow logs an info message with the osquery ingest symbol (⨳)
func OSQInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.OSQ}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// OSQWarnw logs a warning message with the osquery ingest symbol (⨳)
func OSQWarnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.OSQ}, keysAndValues...)
		Logger.Warnw(msg, fields...)
	}
}

// DBInfow logs an info message with the DB symbol (⛁)
func DBInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// DBErrorw logs an error message with the DB symbol (⛁)
func DBErrorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Errorw(msg, fields...)
	}
}
