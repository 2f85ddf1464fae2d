package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/hepnorm/hepnorm/internal/canon"
)

// snapshot converts a scenario run to a map for canonical JSON
// serialization. Computed values ("got") and the dataset fingerprint are
// deliberately excluded: the snapshot captures the scenario's contract
// (inputs, expectations, pass/fail), not float bit patterns, so golden
// files stay stable across platforms.
func snapshot(scenario *Scenario, result *Result) map[string]any {
	cases := make([]any, len(result.Cases))
	for i, cr := range result.Cases {
		caseMap := map[string]any{
			"process":  cr.Process,
			"kind":     cr.Kind,
			"expected": cr.Expected,
			"pass":     cr.Pass,
		}
		if cr.Period != "" {
			caseMap["period"] = cr.Period
		}
		if cr.Run != "" {
			caseMap["run"] = cr.Run
		}
		if len(cr.Channels) > 0 {
			channels := make([]any, len(cr.Channels))
			for j, ch := range cr.Channels {
				channels[j] = ch
			}
			caseMap["channels"] = channels
		}
		cases[i] = caseMap
	}

	return map[string]any{
		"scenario_name": scenario.Name,
		"cases":         cases,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapJSON, err := canon.Marshal(snapshot(scenario, result))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapJSON)

	return result, nil
}
