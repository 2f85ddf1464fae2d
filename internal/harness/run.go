package harness

import (
	"fmt"
	"math"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// CaseResult is the outcome of one scenario case.
type CaseResult struct {
	Process  string   `json:"process"`
	Period   string   `json:"period,omitempty"`
	Channels []string `json:"channels,omitempty"`
	Run      string   `json:"run,omitempty"`
	Kind     string   `json:"kind"` // "weight" or "combined"
	Expected float64  `json:"expected"`
	Got      float64  `json:"got"`
	Pass     bool     `json:"pass"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every case within tolerance.
	Pass bool

	// Cases holds per-case outcomes in scenario order.
	Cases []CaseResult

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string
}

// Run executes a scenario against the real refdata and weight packages.
// A lookup error (absent process, period, channel or generator) fails the
// run outright; a value outside tolerance fails the case.
func Run(scenario *Scenario) (*Result, error) {
	ds, err := refdata.Load(scenario.Dataset)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{Pass: true}
	for i, c := range scenario.Cases {
		cr, err := runCase(ds, scenario, c)
		if err != nil {
			return nil, fmt.Errorf("scenario %s case %d: %w", scenario.Name, i, err)
		}
		if !cr.Pass {
			result.Pass = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("case %d (%s): got %g, expected %g", i, cr.Process, cr.Got, cr.Expected))
		}
		result.Cases = append(result.Cases, cr)
	}
	return result, nil
}

func runCase(ds *refdata.Dataset, scenario *Scenario, c Case) (CaseResult, error) {
	if c.ExpectWeight != nil {
		res, err := weight.Compute(ds, refdata.Process(c.Process), refdata.Period(c.Period), c.NMC)
		if err != nil {
			return CaseResult{}, err
		}
		return CaseResult{
			Process:  c.Process,
			Period:   c.Period,
			Kind:     "weight",
			Expected: *c.ExpectWeight,
			Got:      res.Weight,
			Pass:     withinTolerance(res.Weight, *c.ExpectWeight, scenario.Tolerance),
		}, nil
	}

	channels := make([]refdata.Channel, len(c.Channels))
	for i, ch := range c.Channels {
		channels[i] = refdata.Channel(ch)
	}
	got, err := weight.Combined(ds, refdata.Process(c.Process), channels, refdata.Generator(scenario.Generator), refdata.RunPeriod(c.Run))
	if err != nil {
		return CaseResult{}, err
	}
	return CaseResult{
		Process:  c.Process,
		Channels: c.Channels,
		Run:      c.Run,
		Kind:     "combined",
		Expected: *c.ExpectCrossSection,
		Got:      got,
		Pass:     withinTolerance(got, *c.ExpectCrossSection, scenario.Tolerance),
	}, nil
}

func withinTolerance(got, expected, tol float64) bool {
	if expected == 0 {
		return math.Abs(got) <= tol
	}
	return math.Abs(got-expected)/math.Abs(expected) <= tol
}
