package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/hepnorm/hepnorm/internal/canon"
)

// Reference table file names within a dataset directory.
const (
	LuminosityFile        = "luminosity.json"
	CrossSectionsRun3File = "cross_sections.json"
	CrossSectionsRun2File = "cross_sections_runII.json"
	BranchingFile         = "branching_fractions_runII.json"
)

// Load reads the reference tables from a dataset directory and returns an
// immutable Dataset with its fingerprint computed.
//
// luminosity.json, cross_sections.json (Run 3 scope) and
// branching_fractions_runII.json are required; cross_sections_runII.json
// (Run 2 scope) is loaded when present.
//
// Values are range-checked at load time: luminosities and cross sections
// must be positive and finite, branching fractions must lie in [0,1].
// A table that fails these checks never becomes a Dataset.
func Load(dir string) (*Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dataset path %s is not a directory", dir)
	}

	ds := &Dataset{
		CrossSections: make(map[RunPeriod]CrossSectionTable, 2),
	}

	if err := decodeFile(dir, LuminosityFile, &ds.Luminosity); err != nil {
		return nil, err
	}
	var run3 CrossSectionTable
	if err := decodeFile(dir, CrossSectionsRun3File, &run3); err != nil {
		return nil, err
	}
	ds.CrossSections[Run3] = run3

	var run2 CrossSectionTable
	err = decodeFile(dir, CrossSectionsRun2File, &run2)
	switch {
	case err == nil:
		ds.CrossSections[Run2] = run2
	case errors.Is(err, fs.ErrNotExist):
		// Run 2 cross sections are optional.
	default:
		return nil, err
	}

	if err := decodeFile(dir, BranchingFile, &ds.Branching); err != nil {
		return nil, err
	}

	if err := checkRanges(ds); err != nil {
		return nil, err
	}

	fp, err := canon.Fingerprint(canon.DomainDataset, tablesForHashing(ds))
	if err != nil {
		return nil, fmt.Errorf("fingerprint dataset: %w", err)
	}
	ds.Fingerprint = fp

	return ds, nil
}

// decodeFile reads and unmarshals one table file. The fs.ErrNotExist from
// os.ReadFile is preserved so callers can treat optional files as such.
func decodeFile(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// checkRanges enforces physical validity of every loaded value.
func checkRanges(ds *Dataset) error {
	if len(ds.Luminosity) == 0 {
		return fmt.Errorf("%s: table is empty", LuminosityFile)
	}
	for p, lumi := range ds.Luminosity {
		if !positiveFinite(lumi) {
			return fmt.Errorf("%s: period %q: luminosity %v must be positive and finite", LuminosityFile, p, lumi)
		}
	}

	for run, table := range ds.CrossSections {
		if len(table) == 0 {
			return fmt.Errorf("cross-section table for %s is empty", run)
		}
		for proc, sigma := range table {
			if !positiveFinite(sigma) {
				return fmt.Errorf("cross-section table for %s: process %q: value %v must be positive and finite", run, proc, sigma)
			}
		}
	}

	for proc, channels := range ds.Branching {
		if len(channels) == 0 {
			return fmt.Errorf("%s: process %q has no channels", BranchingFile, proc)
		}
		for ch, gens := range channels {
			if len(gens) == 0 {
				return fmt.Errorf("%s: %s/%s has no generator values", BranchingFile, proc, ch)
			}
			for gen, frac := range gens {
				if math.IsNaN(frac) || frac < 0 || frac > 1 {
					return fmt.Errorf("%s: %s/%s/%s: branching fraction %v must be in [0,1]", BranchingFile, proc, ch, gen, frac)
				}
			}
		}
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// tablesForHashing converts the typed tables into the plain map shape the
// canonical marshaler accepts. Key order does not matter; the marshaler
// sorts.
func tablesForHashing(ds *Dataset) map[string]any {
	lumi := make(map[string]any, len(ds.Luminosity))
	for p, v := range ds.Luminosity {
		lumi[string(p)] = v
	}

	xsec := make(map[string]any, len(ds.CrossSections))
	for run, table := range ds.CrossSections {
		m := make(map[string]any, len(table))
		for proc, v := range table {
			m[string(proc)] = v
		}
		xsec[string(run)] = m
	}

	branching := make(map[string]any, len(ds.Branching))
	for proc, channels := range ds.Branching {
		cm := make(map[string]any, len(channels))
		for ch, gens := range channels {
			gm := make(map[string]any, len(gens))
			for gen, v := range gens {
				gm[string(gen)] = v
			}
			cm[string(ch)] = gm
		}
		branching[string(proc)] = cm
	}

	return map[string]any{
		"luminosity":          lumi,
		"cross_sections":      xsec,
		"branching_fractions": branching,
	}
}
