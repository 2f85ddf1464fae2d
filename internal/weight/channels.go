package weight

import (
	"fmt"
	"math"

	"github.com/hepnorm/hepnorm/internal/refdata"
)

// Combined returns the branching-fraction weighted cross section for a
// subset of decay channels of a process:
//
//	sigma_p(channels) = sum_i Gamma_i * sigma_p
//
// where sigma_p is the inclusive cross section from the run's table and
// Gamma_i the branching fraction for channel i under the given generator.
// Over a complete exclusive channel set (sum Gamma_i = 1) this reproduces
// the inclusive cross section.
func Combined(ds *refdata.Dataset, proc refdata.Process, channels []refdata.Channel, gen refdata.Generator, run refdata.RunPeriod) (float64, error) {
	if len(channels) == 0 {
		return 0, &ComputeError{
			Code:     ErrCodeIncompleteChannels,
			Message:  fmt.Sprintf("no channels given for %s", proc),
			Residual: 1,
		}
	}

	sigma, err := ds.CrossSection(proc, run)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, ch := range channels {
		frac, err := ds.BranchingFraction(proc, ch, gen)
		if err != nil {
			return 0, err
		}
		total += frac * sigma
	}
	return total, nil
}

// CheckCompleteness verifies that the branching fractions of every
// recorded channel of a process (under one generator) sum to one within
// tol. An exclusive channel set that fails this check means the branching
// table is inconsistent, and combinations over it would silently shift
// the normalization.
func CheckCompleteness(ds *refdata.Dataset, proc refdata.Process, gen refdata.Generator, tol float64) error {
	channels, err := ds.Channels(proc)
	if err != nil {
		return err
	}

	var sum float64
	for _, ch := range channels {
		frac, err := ds.BranchingFraction(proc, ch, gen)
		if err != nil {
			return err
		}
		sum += frac
	}

	residual := math.Abs(sum - 1)
	if residual > tol {
		return &ComputeError{
			Code:     ErrCodeIncompleteChannels,
			Message:  fmt.Sprintf("branching fractions of %s (%s) sum to %g, not 1", proc, gen, sum),
			Residual: residual,
		}
	}
	return nil
}
