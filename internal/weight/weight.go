// Package weight computes luminosity-normalization weights for Monte Carlo
// samples: w = sigma_p * L / N_mc, where sigma_p is the process cross
// section (pb), L the integrated luminosity (pb^-1) and N_mc the total
// simulated-event count of the sample.
package weight

import (
	"fmt"
	"math"

	"github.com/hepnorm/hepnorm/internal/refdata"
)

// Result is one computed normalization weight together with every input
// that produced it, so downstream bookkeeping can audit the value.
type Result struct {
	Process      refdata.Process `json:"process"`
	Period       refdata.Period  `json:"period"`
	CrossSection float64         `json:"cross_section_pb"`
	Luminosity   float64         `json:"luminosity_pb_inv"`
	EventCount   float64         `json:"n_mc"`
	Weight       float64         `json:"weight"`

	// DatasetFingerprint identifies the exact reference tables used.
	DatasetFingerprint string `json:"dataset_fingerprint"`
}

// Normalization computes sigma * lumi / nmc.
//
// All three inputs must be positive and finite; the result must be finite.
// Anything else is an error rather than a silently wrong constant.
func Normalization(sigma, lumi, nmc float64) (float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return 0, &ComputeError{
			Code:    ErrCodeInvalidConstant,
			Message: fmt.Sprintf("cross section %v must be positive and finite", sigma),
		}
	}
	if !(lumi > 0) || math.IsInf(lumi, 1) {
		return 0, &ComputeError{
			Code:    ErrCodeInvalidConstant,
			Message: fmt.Sprintf("luminosity %v must be positive and finite", lumi),
		}
	}
	if !(nmc > 0) || math.IsInf(nmc, 1) {
		return 0, &ComputeError{
			Code:    ErrCodeInvalidEventCount,
			Message: fmt.Sprintf("simulated-event count %v must be positive and finite", nmc),
		}
	}

	w := sigma * lumi / nmc
	if math.IsInf(w, 0) || math.IsNaN(w) {
		return 0, &ComputeError{
			Code:    ErrCodeNonFiniteWeight,
			Message: fmt.Sprintf("weight overflowed: sigma=%v lumi=%v nmc=%v", sigma, lumi, nmc),
		}
	}
	return w, nil
}

// Compute looks up the cross section and luminosity for (process, period)
// and returns the normalization weight for a sample of nmc events.
func Compute(ds *refdata.Dataset, proc refdata.Process, period refdata.Period, nmc float64) (Result, error) {
	sigma, err := ds.CrossSectionForPeriod(proc, period)
	if err != nil {
		return Result{}, err
	}
	lumi, err := ds.LuminosityFor(period)
	if err != nil {
		return Result{}, err
	}
	w, err := Normalization(sigma, lumi, nmc)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Process:            proc,
		Period:             period,
		CrossSection:       sigma,
		Luminosity:         lumi,
		EventCount:         nmc,
		Weight:             w,
		DatasetFingerprint: ds.Fingerprint,
	}, nil
}
