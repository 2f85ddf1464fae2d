package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// XsecOptions holds flags for the xsec command.
type XsecOptions struct {
	*RootOptions
	Run       string
	Channels  []string
	Generator string
}

// XsecResult is the xsec command's payload.
type XsecResult struct {
	Process      refdata.Process   `json:"process"`
	Run          refdata.RunPeriod `json:"run"`
	CrossSection float64           `json:"cross_section_pb"`

	// Channels is set when the value is a branching-fraction weighted
	// combination rather than the inclusive table entry.
	Channels  []refdata.Channel `json:"channels,omitempty"`
	Generator refdata.Generator `json:"generator,omitempty"`
}

// NewXsecCommand creates the xsec command.
func NewXsecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &XsecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "xsec <process>",
		Short: "Look up a production cross section",
		Long: `Look up the production cross section of a process in picobarns.

By default the inclusive value from the run's table is returned. With
--channels the result is the branching-fraction weighted combination over
those decay channels:

  sigma_p(channels) = sum_i Gamma_i * sigma_p

Example:
  hepnorm --dataset ./data xsec TTto2L2Nu
  hepnorm --dataset ./data xsec TT --channels dilepton,semileptonic --generator powheg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXsec(opts, refdata.Process(args[0]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", string(refdata.Run3), "run period table (run2|run3)")
	cmd.Flags().StringSliceVar(&opts.Channels, "channels", nil, "decay channels to combine over")
	cmd.Flags().StringVar(&opts.Generator, "generator", "", "generator for branching fractions")

	return cmd
}

func runXsec(opts *XsecOptions, proc refdata.Process, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	run := refdata.RunPeriod(strings.ToLower(opts.Run))
	if run != refdata.Run2 && run != refdata.Run3 {
		if err := formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid run %q: must be run2 or run3", opts.Run), nil); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid run %q", opts.Run))
	}

	ds, m, err := loadDataset(opts.RootOptions, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result := XsecResult{Process: proc, Run: run}

	if len(opts.Channels) > 0 {
		gen, err := defaultGenerator(opts.Generator, m)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		channels := make([]refdata.Channel, len(opts.Channels))
		for i, ch := range opts.Channels {
			channels[i] = refdata.Channel(ch)
		}
		sigma, err := weight.Combined(ds, proc, channels, gen, run)
		if err != nil {
			return outputLookupError(formatter, err)
		}
		result.CrossSection = sigma
		result.Channels = channels
		result.Generator = gen
	} else {
		sigma, err := ds.CrossSection(proc, run)
		if err != nil {
			return outputLookupError(formatter, err)
		}
		result.CrossSection = sigma
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s pb\n", formatValue(result.CrossSection))
	return nil
}
