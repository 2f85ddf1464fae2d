package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/registry"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database  string
	Generator string
}

// ImportSummary is the import command's payload.
type ImportSummary struct {
	ImportID           string `json:"import_id"`
	DatasetFingerprint string `json:"dataset_fingerprint"`
	Source             string `json:"source"`
	Samples            int    `json:"samples"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <counts.json>",
		Short: "Register sample event counts in the registry",
		Long: `Register simulated-event counts from a JSON file mapping process ->
period -> N_mc. Every (process, period) is cross-checked against the
loaded reference tables before anything is written: a count for an
unknown process or period is an error, not a row that fails later.

The run is stamped with a fresh import ID and the dataset fingerprint, so
each registered count is traceable to the constants in force at import
time. Re-importing a sample replaces its count.

Example:
  hepnorm --dataset ./data import counts.json --db samples.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sample registry database")
	cmd.Flags().StringVar(&opts.Generator, "generator", "", "generator key to record for every sample")

	return cmd
}

func runImport(opts *ImportOptions, countsPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ds, m, err := loadDataset(opts.RootOptions, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	counts, err := readCounts(countsPath)
	if err != nil {
		return outputLoadError(formatter, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()})
	}

	// Cross-check every key against the reference tables before writing.
	for _, proc := range sortedKeys(counts) {
		for _, period := range sortedKeys(counts[proc]) {
			if _, err := ds.LuminosityFor(refdata.Period(period)); err != nil {
				return outputLookupError(formatter, err)
			}
			if _, err := ds.CrossSectionForPeriod(refdata.Process(proc), refdata.Period(period)); err != nil {
				return outputLookupError(formatter, err)
			}
		}
	}

	reg, err := openRegistry(opts.Database, m)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer reg.Close()

	imp, err := reg.BeginImport(cmd.Context(), ds.Fingerprint, countsPath)
	if err != nil {
		return outputLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
	}

	n := 0
	for _, proc := range sortedKeys(counts) {
		for _, period := range sortedKeys(counts[proc]) {
			s := registry.Sample{
				Process:    refdata.Process(proc),
				Period:     refdata.Period(period),
				Generator:  refdata.Generator(opts.Generator),
				EventCount: counts[proc][period],
				ImportID:   imp.ID,
			}
			if err := reg.PutSample(cmd.Context(), s); err != nil {
				return outputLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
			}
			formatter.VerboseLog("registered %s/%s: %s", proc, period, formatValue(s.EventCount))
			n++
		}
	}

	summary := ImportSummary{
		ImportID:           imp.ID,
		DatasetFingerprint: ds.Fingerprint,
		Source:             countsPath,
		Samples:            n,
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %d sample(s) (import %s)\n", n, imp.ID)
	return nil
}

// readCounts reads a counts file: process -> period -> N_mc.
func readCounts(path string) (map[string]map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read counts file: %w", err)
	}
	var counts map[string]map[string]float64
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("decode counts file %s: %w", path, err)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("counts file %s has no entries", path)
	}
	return counts, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
