package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// BFOptions holds flags for the bf command.
type BFOptions struct {
	*RootOptions
	Generator string
	Check     bool
	Tolerance float64
}

// BFResult is the bf command's payload.
type BFResult struct {
	Process   refdata.Process   `json:"process"`
	Channel   refdata.Channel   `json:"channel"`
	Generator refdata.Generator `json:"generator"`
	Fraction  float64           `json:"branching_fraction"`
}

// NewBFCommand creates the bf command.
func NewBFCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BFOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bf <process> <channel>",
		Short: "Look up a branching fraction",
		Long: `Look up the branching fraction for a process decaying via a channel,
as computed by a generator.

With --check, additionally verify that the generator's fractions over all
recorded channels of the process sum to one within --tolerance; an
incomplete exclusive channel set would silently shift any combination
built from it.

Example:
  hepnorm --dataset ./data bf TT dilepton --generator powheg
  hepnorm --dataset ./data bf TT dilepton --generator powheg --check`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBF(opts, refdata.Process(args[0]), refdata.Channel(args[1]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Generator, "generator", "", "generator the fraction was computed with")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "verify channel-set completeness for the process")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 1e-3, "completeness tolerance on |sum Gamma_i - 1|")

	return cmd
}

func runBF(opts *BFOptions, proc refdata.Process, ch refdata.Channel, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ds, m, err := loadDataset(opts.RootOptions, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	gen, err := defaultGenerator(opts.Generator, m)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	frac, err := ds.BranchingFraction(proc, ch, gen)
	if err != nil {
		return outputLookupError(formatter, err)
	}

	if opts.Check {
		if err := weight.CheckCompleteness(ds, proc, gen, opts.Tolerance); err != nil {
			code := string(weight.ComputeCode(err))
			if code == "" {
				code = string(refdata.LookupCode(err))
			}
			if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitFailure, code, err)
		}
		formatter.VerboseLog("channel set of %s (%s) complete within %g", proc, gen, opts.Tolerance)
	}

	if opts.Format == "json" {
		return formatter.Success(BFResult{Process: proc, Channel: ch, Generator: gen, Fraction: frac})
	}
	fmt.Fprintln(formatter.Writer, formatValue(frac))
	return nil
}
