// Package refdata holds the immutable physics reference tables used for
// luminosity normalization: integrated luminosities by data-taking period,
// production cross sections by process, and decay branching fractions by
// process, channel and generator.
//
// Tables are loaded once from JSON files and never mutated afterwards.
// Every lookup miss is a typed error - a silently defaulted normalization
// constant would corrupt downstream physics results without any visible
// failure, so absence must always be loud.
package refdata

import (
	"fmt"
	"slices"
	"strconv"
)

// Period identifies a data-taking period, e.g. "2018", "2022EE", "2023BPix".
type Period string

// Process identifies a physics process sample, e.g. "TTto2L2Nu".
type Process string

// Channel identifies a decay channel, e.g. "dilepton".
type Channel string

// Generator identifies the Monte Carlo generator a branching fraction was
// computed with, e.g. "powheg".
type Generator string

// RunPeriod identifies an LHC run; cross-section tables are distinct per run.
type RunPeriod string

const (
	Run2 RunPeriod = "run2"
	Run3 RunPeriod = "run3"
)

// LuminosityTable maps a data-taking period to its integrated luminosity
// in inverse picobarns (pb^-1).
type LuminosityTable map[Period]float64

// CrossSectionTable maps a process to its production cross section in
// picobarns (pb).
type CrossSectionTable map[Process]float64

// BranchingTable maps process -> decay channel -> generator -> branching
// fraction in [0,1].
type BranchingTable map[Process]map[Channel]map[Generator]float64

// Dataset aggregates the loaded reference tables together with the
// content-addressed fingerprint of their canonical serialization.
// A Dataset is read-only after Load returns.
type Dataset struct {
	Luminosity    LuminosityTable
	CrossSections map[RunPeriod]CrossSectionTable
	Branching     BranchingTable

	// Fingerprint is the hex SHA-256 of the canonical JSON of all tables,
	// computed at load time. Outputs derived from this dataset carry it
	// for provenance.
	Fingerprint string
}

// RunPeriodOf derives the LHC run from a data-taking period label.
// Period labels start with the four-digit year ("2016preVFP", "2022EE").
func RunPeriodOf(p Period) (RunPeriod, error) {
	if len(p) < 4 {
		return "", &LookupError{
			Code:    ErrCodeUnknownPeriod,
			Table:   TableLuminosity,
			Key:     string(p),
			Message: "period label must start with a four-digit year",
		}
	}
	year, err := strconv.Atoi(string(p)[:4])
	if err != nil {
		return "", &LookupError{
			Code:    ErrCodeUnknownPeriod,
			Table:   TableLuminosity,
			Key:     string(p),
			Message: "period label must start with a four-digit year",
		}
	}
	switch {
	case year >= 2015 && year <= 2018:
		return Run2, nil
	case year >= 2022 && year <= 2026:
		return Run3, nil
	default:
		return "", &LookupError{
			Code:    ErrCodeUnknownPeriod,
			Table:   TableLuminosity,
			Key:     string(p),
			Message: fmt.Sprintf("year %d is not part of Run 2 or Run 3", year),
		}
	}
}

// LuminosityFor returns the integrated luminosity for a period in pb^-1.
func (d *Dataset) LuminosityFor(p Period) (float64, error) {
	lumi, ok := d.Luminosity[p]
	if !ok {
		return 0, &LookupError{
			Code:  ErrCodeMissingPeriod,
			Table: TableLuminosity,
			Key:   string(p),
		}
	}
	return lumi, nil
}

// CrossSection returns the cross section in pb for a process from the
// table of the given run.
func (d *Dataset) CrossSection(proc Process, run RunPeriod) (float64, error) {
	table, ok := d.CrossSections[run]
	if !ok {
		return 0, &LookupError{
			Code:    ErrCodeMissingTable,
			Table:   TableCrossSections,
			Key:     string(run),
			Message: "no cross-section table loaded for this run",
		}
	}
	sigma, ok := table[proc]
	if !ok {
		return 0, &LookupError{
			Code:    ErrCodeMissingProcess,
			Table:   TableCrossSections,
			Key:     string(proc),
			Message: fmt.Sprintf("process not in %s cross-section table", run),
		}
	}
	return sigma, nil
}

// CrossSectionForPeriod resolves the run from the period label and looks
// up the cross section in the matching table.
func (d *Dataset) CrossSectionForPeriod(proc Process, p Period) (float64, error) {
	run, err := RunPeriodOf(p)
	if err != nil {
		return 0, err
	}
	return d.CrossSection(proc, run)
}

// BranchingFraction returns the branching fraction for a process decaying
// via the given channel, as computed by the given generator.
func (d *Dataset) BranchingFraction(proc Process, ch Channel, gen Generator) (float64, error) {
	channels, ok := d.Branching[proc]
	if !ok {
		return 0, &LookupError{
			Code:  ErrCodeMissingProcess,
			Table: TableBranching,
			Key:   string(proc),
		}
	}
	gens, ok := channels[ch]
	if !ok {
		return 0, &LookupError{
			Code:    ErrCodeMissingChannel,
			Table:   TableBranching,
			Key:     string(ch),
			Message: fmt.Sprintf("process %s has no channel %s", proc, ch),
		}
	}
	frac, ok := gens[gen]
	if !ok {
		return 0, &LookupError{
			Code:    ErrCodeMissingGenerator,
			Table:   TableBranching,
			Key:     string(gen),
			Message: fmt.Sprintf("no %s value for %s/%s", gen, proc, ch),
		}
	}
	return frac, nil
}

// Channels returns the decay channels recorded for a process, sorted for
// deterministic iteration.
func (d *Dataset) Channels(proc Process) ([]Channel, error) {
	channels, ok := d.Branching[proc]
	if !ok {
		return nil, &LookupError{
			Code:  ErrCodeMissingProcess,
			Table: TableBranching,
			Key:   string(proc),
		}
	}
	out := make([]Channel, 0, len(channels))
	for ch := range channels {
		out = append(out, ch)
	}
	slices.Sort(out)
	return out, nil
}

// Processes returns the processes recorded in the cross-section table of
// a run, sorted for deterministic iteration. Returns an empty slice (not
// nil) when the run has a table with no entries.
func (d *Dataset) Processes(run RunPeriod) ([]Process, error) {
	table, ok := d.CrossSections[run]
	if !ok {
		return nil, &LookupError{
			Code:    ErrCodeMissingTable,
			Table:   TableCrossSections,
			Key:     string(run),
			Message: "no cross-section table loaded for this run",
		}
	}
	out := make([]Process, 0, len(table))
	for proc := range table {
		out = append(out, proc)
	}
	slices.Sort(out)
	return out, nil
}

// Periods returns all periods with a recorded luminosity, sorted.
func (d *Dataset) Periods() []Period {
	out := make([]Period, 0, len(d.Luminosity))
	for p := range d.Luminosity {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
