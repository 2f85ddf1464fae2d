package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// WeightOptions holds flags for the weight command.
type WeightOptions struct {
	*RootOptions
	EventCount float64
	Database   string
	Generator  string
}

// NewWeightCommand creates the weight command.
func NewWeightCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WeightOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "weight <process> <period>",
		Short: "Compute the luminosity-normalization weight for a sample",
		Long: `Compute w = sigma_p * L / N_mc for a Monte Carlo sample.

The cross section comes from the run table matching the period, the
luminosity from the period's entry. N_mc is the sample's total
simulated-event count: pass it with --nmc, or let the command read it
from the sample registry (--db or the manifest's registry).

Example:
  hepnorm --dataset ./data weight TTto2L2Nu 2022 --nmc 4.8e7
  hepnorm --manifest analysis.yml weight TTto2L2Nu 2022`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeight(opts, refdata.Process(args[0]), refdata.Period(args[1]), cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.EventCount, "nmc", 0, "simulated-event count (bypasses the registry)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sample registry database")
	cmd.Flags().StringVar(&opts.Generator, "generator", "", "generator key of the registered sample")

	return cmd
}

func runWeight(opts *WeightOptions, proc refdata.Process, period refdata.Period, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ds, m, err := loadDataset(opts.RootOptions, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	nmc := opts.EventCount
	if !cmd.Flags().Changed("nmc") {
		reg, err := openRegistry(opts.Database, m)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		defer reg.Close()

		nmc, err = reg.SampleCount(cmd.Context(), proc, period, refdata.Generator(opts.Generator))
		if err != nil {
			return outputLookupError(formatter, err)
		}
		formatter.VerboseLog("registry count for %s/%s: %s", proc, period, formatValue(nmc))
	}

	res, err := weight.Compute(ds, proc, period, nmc)
	if err != nil {
		return outputLookupError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(res)
	}
	fmt.Fprintln(formatter.Writer, formatValue(res.Weight))
	return nil
}
