// Package harness provides a conformance testing framework for the
// normalization computations. Scenarios are YAML files pairing a reference
// dataset with expected weights and combined cross sections; the harness
// runs them against the real packages and snapshots the outcome as
// canonical JSON for golden-file comparison.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is the reference-table directory, relative to the scenario
	// file location.
	Dataset string `yaml:"dataset"`

	// Generator is the generator used for branching-fraction lookups.
	Generator string `yaml:"generator,omitempty"`

	// Tolerance is the allowed relative deviation |got-expected|/expected.
	// Defaults to 1e-9 when omitted.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Cases are the computations to run.
	Cases []Case `yaml:"cases"`
}

// Case is one expected computation. Exactly one of ExpectWeight or
// ExpectCrossSection must be set: the former makes it a normalization
// weight case, the latter a channel-combination case.
type Case struct {
	Process string `yaml:"process"`

	// Period drives weight cases (resolves run, luminosity).
	Period string `yaml:"period,omitempty"`

	// NMC is the simulated-event count for weight cases.
	NMC float64 `yaml:"nmc,omitempty"`

	// ExpectWeight is the expected normalization weight.
	ExpectWeight *float64 `yaml:"expect_weight,omitempty"`

	// Channels and Run drive channel-combination cases.
	Channels []string `yaml:"channels,omitempty"`
	Run      string   `yaml:"run,omitempty"`

	// ExpectCrossSection is the expected combined cross section in pb.
	ExpectCrossSection *float64 `yaml:"expect_cross_section,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields. The dataset path
// is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if !filepath.IsAbs(scenario.Dataset) {
		scenario.Dataset = filepath.Join(filepath.Dir(path), scenario.Dataset)
	}
	if scenario.Tolerance == 0 {
		scenario.Tolerance = 1e-9
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("at least one case is required")
	}
	for i, c := range s.Cases {
		if c.Process == "" {
			return fmt.Errorf("case %d: process is required", i)
		}
		isWeight := c.ExpectWeight != nil
		isCombined := c.ExpectCrossSection != nil
		if isWeight == isCombined {
			return fmt.Errorf("case %d: exactly one of expect_weight or expect_cross_section is required", i)
		}
		if isWeight && (c.Period == "" || c.NMC == 0) {
			return fmt.Errorf("case %d: weight cases need period and nmc", i)
		}
		if isCombined && (len(c.Channels) == 0 || c.Run == "") {
			return fmt.Errorf("case %d: combination cases need channels and run", i)
		}
	}
	return nil
}
