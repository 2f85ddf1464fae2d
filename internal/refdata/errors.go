package refdata

import (
	"errors"
	"fmt"
)

// Table names used in lookup errors.
const (
	TableLuminosity    = "luminosity"
	TableCrossSections = "cross_sections"
	TableBranching     = "branching_fractions"
)

// LookupErrorCode categorizes lookup failures.
type LookupErrorCode string

const (
	// ErrCodeMissingPeriod indicates a period absent from the luminosity table.
	ErrCodeMissingPeriod LookupErrorCode = "MISSING_PERIOD"

	// ErrCodeMissingProcess indicates a process absent from a table.
	ErrCodeMissingProcess LookupErrorCode = "MISSING_PROCESS"

	// ErrCodeMissingChannel indicates a decay channel absent for a process.
	ErrCodeMissingChannel LookupErrorCode = "MISSING_CHANNEL"

	// ErrCodeMissingGenerator indicates no value for the requested generator.
	ErrCodeMissingGenerator LookupErrorCode = "MISSING_GENERATOR"

	// ErrCodeMissingTable indicates no table is loaded for the requested run.
	ErrCodeMissingTable LookupErrorCode = "MISSING_TABLE"

	// ErrCodeUnknownPeriod indicates a period label that maps to no LHC run.
	ErrCodeUnknownPeriod LookupErrorCode = "UNKNOWN_PERIOD"
)

// LookupError reports a failed reference-table lookup.
//
// Lookups never default: a missing normalization constant must surface to
// the caller, so LookupError carries enough structure (table, key, code)
// for the caller to report exactly what was absent.
type LookupError struct {
	// Code identifies the error category.
	Code LookupErrorCode

	// Table names the reference table that was consulted.
	Table string

	// Key is the identifier that was not found.
	Key string

	// Message is an optional human-readable elaboration.
	Message string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %q not found in %s table: %s", e.Code, e.Key, e.Table, e.Message)
	}
	return fmt.Sprintf("%s: %q not found in %s table", e.Code, e.Key, e.Table)
}

// IsNotFound returns true if the error is any reference-table lookup miss.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// LookupCode extracts the lookup error code from an error, or "" if the
// error is not a LookupError.
func LookupCode(err error) LookupErrorCode {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
