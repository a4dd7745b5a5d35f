// Package errors provides error handling for queryscope.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the input path in your config file")
//
//	// Check errors
//	if errors.Is(err, errors.ErrMalformedQuery) {
//	    // count and continue
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSafeDetails    = crdb.WithSafeDetails
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)

// Common sentinel errors for use across queryscope.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidConfig indicates the configuration is missing or malformed
	ErrInvalidConfig = New("invalid configuration")

	// ErrInvalidSchema indicates the FDH schema document is structurally invalid
	ErrInvalidSchema = New("invalid schema")

	// ErrMalformedQuery indicates an embedded query payload could not be decoded
	ErrMalformedQuery = New("malformed query")

	// ErrMalformedRecord indicates a CSV record is missing required columns
	ErrMalformedRecord = New("malformed record")

	// ErrNoInput indicates no input path was configured for an analysis run
	ErrNoInput = New("no input configured")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsMalformedQueryError checks if an error is or wraps ErrMalformedQuery.
// Malformed queries are counted per record and never abort an analysis run.
func IsMalformedQueryError(err error) bool {
	return err != nil && Is(err, ErrMalformedQuery)
}

// IsInvalidSchemaError checks if an error is or wraps ErrInvalidSchema.
func IsInvalidSchemaError(err error) bool {
	return err != nil && Is(err, ErrInvalidSchema)
}

// WrapMalformedQuery wraps an error as a malformed-query error with context
func WrapMalformedQuery(err error, context string) error {
	return Wrap(Wrap(ErrMalformedQuery, err.Error()), context)
}

// NewInvalidSchemaError creates an invalid-schema error with a formatted message
func NewInvalidSchemaError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidSchema, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
