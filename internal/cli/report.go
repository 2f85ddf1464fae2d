package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/registry"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database   string
	CountsFile string
}

// Report is the report command's payload: the normalization weight of
// every sample registered for a period.
type Report struct {
	Period             refdata.Period  `json:"period"`
	Luminosity         float64         `json:"luminosity_pb_inv"`
	DatasetFingerprint string          `json:"dataset_fingerprint"`
	Rows               []weight.Result `json:"rows"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <period>",
		Short: "Normalization weights for every registered sample of a period",
		Long: `Compute the luminosity-normalization weight of every sample registered
for a data-taking period. Rows are ordered by process; a sample whose
process or period is missing from the reference tables fails the whole
report rather than being skipped.

N_mc values come from the sample registry, or directly from a counts
file with --nmc-file.

Example:
  hepnorm --manifest analysis.yml report 2022
  hepnorm --dataset ./data report 2022 --nmc-file counts.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, refdata.Period(args[0]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sample registry database")
	cmd.Flags().StringVar(&opts.CountsFile, "nmc-file", "", "JSON counts file (process -> period -> N_mc) instead of the registry")

	return cmd
}

func runReport(opts *ReportOptions, period refdata.Period, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ds, m, err := loadDataset(opts.RootOptions, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	lumi, err := ds.LuminosityFor(period)
	if err != nil {
		return outputLookupError(formatter, err)
	}

	var samples []registry.Sample
	if opts.CountsFile != "" {
		counts, err := readCounts(opts.CountsFile)
		if err != nil {
			return outputLoadError(formatter, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()})
		}
		for _, proc := range sortedKeys(counts) {
			if nmc, ok := counts[proc][string(period)]; ok {
				samples = append(samples, registry.Sample{
					Process:    refdata.Process(proc),
					Period:     period,
					EventCount: nmc,
				})
			}
		}
	} else {
		reg, err := openRegistry(opts.Database, m)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		defer reg.Close()

		samples, err = reg.SamplesForPeriod(cmd.Context(), period)
		if err != nil {
			return outputLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: err.Error()})
		}
	}

	report := Report{
		Period:             period,
		Luminosity:         lumi,
		DatasetFingerprint: ds.Fingerprint,
		Rows:               make([]weight.Result, 0, len(samples)),
	}
	for _, s := range samples {
		res, err := weight.Compute(ds, s.Process, s.Period, s.EventCount)
		if err != nil {
			return outputLookupError(formatter, err)
		}
		report.Rows = append(report.Rows, res)
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	if len(report.Rows) == 0 {
		fmt.Fprintf(formatter.Writer, "no samples registered for %s\n", period)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "period %s  L = %s pb^-1  dataset %s\n", period, formatValue(lumi), ds.Fingerprint[:12])
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESS\tSIGMA_PB\tN_MC\tWEIGHT")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Process, formatValue(row.CrossSection), formatValue(row.EventCount), formatValue(row.Weight))
	}
	tw.Flush()
	return nil
}
