// Package testutil provides shared fixtures for package tests: a small but
// physically sensible reference dataset written to a temp directory.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Fixture values. Luminosities in pb^-1, cross sections in pb. The
// branching fractions for "TT" sum to exactly 1 so completeness checks
// pass without tolerance games.
var (
	FixtureLuminosity = map[string]float64{
		"2018":   59830.0,
		"2022":   7980.4,
		"2022EE": 26671.7,
		"2023":   17794.0,
	}

	FixtureCrossSectionsRun3 = map[string]float64{
		"TT":         923.6,
		"TTto2L2Nu":  98.04,
		"TTtoLNu2Q":  405.75,
		"DYto2L_M50": 6345.99,
	}

	FixtureCrossSectionsRun2 = map[string]float64{
		"TT":         831.76,
		"TTTo2L2Nu":  88.29,
		"DYJetsToLL": 6077.22,
	}

	FixtureBranching = map[string]map[string]map[string]float64{
		"TT": {
			"dilepton": {
				"powheg":   0.105,
				"madgraph": 0.104,
			},
			"semileptonic": {
				"powheg": 0.438,
			},
			"hadronic": {
				"powheg": 0.457,
			},
		},
	}
)

// WriteDataset writes the standard fixture tables into a temp directory
// and returns its path. Individual tables can be overridden first by
// mutating copies; most tests just want the default shape.
func WriteDataset(t *testing.T) string {
	t.Helper()
	return WriteDatasetWith(t, FixtureLuminosity, FixtureCrossSectionsRun3, FixtureCrossSectionsRun2, FixtureBranching)
}

// WriteDatasetWith writes the given tables into a temp directory and
// returns its path. A nil run2 table omits cross_sections_runII.json.
func WriteDatasetWith(t *testing.T, lumi, run3, run2 map[string]float64, branching map[string]map[string]map[string]float64) string {
	t.Helper()
	dir := t.TempDir()

	writeJSON(t, filepath.Join(dir, "luminosity.json"), lumi)
	writeJSON(t, filepath.Join(dir, "cross_sections.json"), run3)
	if run2 != nil {
		writeJSON(t, filepath.Join(dir, "cross_sections_runII.json"), run2)
	}
	writeJSON(t, filepath.Join(dir, "branching_fractions_runII.json"), branching)

	return dir
}

// WriteCounts writes a sample event-count file (process -> period -> N_mc)
// and returns its path.
func WriteCounts(t *testing.T, counts map[string]map[string]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counts.json")
	writeJSON(t, path, counts)
	return path
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
