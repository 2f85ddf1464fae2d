package weight

import (
	"errors"
	"fmt"
)

// ComputeErrorCode categorizes weight computation failures.
type ComputeErrorCode string

const (
	// ErrCodeInvalidEventCount indicates N_mc <= 0 or non-finite.
	ErrCodeInvalidEventCount ComputeErrorCode = "INVALID_EVENT_COUNT"

	// ErrCodeInvalidConstant indicates a non-positive or non-finite
	// cross section or luminosity reached the computation.
	ErrCodeInvalidConstant ComputeErrorCode = "INVALID_CONSTANT"

	// ErrCodeNonFiniteWeight indicates the computed weight overflowed.
	ErrCodeNonFiniteWeight ComputeErrorCode = "NON_FINITE_WEIGHT"

	// ErrCodeIncompleteChannels indicates a channel set whose branching
	// fractions do not sum to one within tolerance.
	ErrCodeIncompleteChannels ComputeErrorCode = "INCOMPLETE_CHANNEL_SET"
)

// ComputeError reports an invalid weight computation.
type ComputeError struct {
	// Code identifies the error category.
	Code ComputeErrorCode

	// Message is a human-readable description.
	Message string

	// Residual is |sum Gamma_i - 1| for INCOMPLETE_CHANNEL_SET, else 0.
	Residual float64
}

// Error implements the error interface.
func (e *ComputeError) Error() string {
	if e.Code == ErrCodeIncompleteChannels {
		return fmt.Sprintf("%s: %s (residual %g)", e.Code, e.Message, e.Residual)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ComputeCode extracts the compute error code from an error, or "" if the
// error is not a ComputeError. Uses errors.As to handle wrapped errors.
func ComputeCode(err error) ComputeErrorCode {
	var ce *ComputeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
