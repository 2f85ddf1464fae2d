// Package schema validates the raw JSON reference tables against embedded
// CUE schemas before they are trusted as physics constants. Validation
// collects every violation rather than failing fast, so a table with three
// bad entries reports three errors.
package schema

import (
	_ "embed"
	"fmt"
)

//go:embed schemas/luminosity.cue
var luminositySchema string

//go:embed schemas/cross_sections.cue
var crossSectionsSchema string

//go:embed schemas/branching_fractions.cue
var branchingSchema string

// Kind selects the schema a table is validated against.
type Kind string

const (
	KindLuminosity    Kind = "luminosity"
	KindCrossSections Kind = "cross_sections"
	KindBranching     Kind = "branching_fractions"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyTable    = "E101" // table has no entries
	ErrValueRange    = "E102" // luminosity or cross section out of range
	ErrFractionRange = "E103" // branching fraction outside [0,1]
	ErrWrongShape    = "E104" // JSON shape does not match the schema
	ErrDuplicateKey  = "E105" // duplicate key within an object
	ErrDecodeFailed  = "E004" // file is not valid JSON
	ErrSchemaBroken  = "E006" // embedded schema failed to compile
)

// ValidationError represents one schema violation in a table file.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d: %s: %s", e.Code, e.File, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.File, e.Field, e.Message)
}

func schemaSource(kind Kind) (string, error) {
	switch kind {
	case KindLuminosity:
		return luminositySchema, nil
	case KindCrossSections:
		return crossSectionsSchema, nil
	case KindBranching:
		return branchingSchema, nil
	default:
		return "", fmt.Errorf("unknown schema kind %q", kind)
	}
}
