package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/refdata"
	"github.com/hepnorm/hepnorm/internal/weight"
)

// LumiResult is the lumi command's payload.
type LumiResult struct {
	Period     refdata.Period `json:"period"`
	Luminosity float64        `json:"luminosity_pb_inv"`
}

// NewLumiCommand creates the lumi command.
func NewLumiCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lumi <period>",
		Short: "Look up the integrated luminosity for a period",
		Long: `Look up the integrated luminosity recorded for a data-taking period,
in inverse picobarns.

Example:
  hepnorm --dataset ./data lumi 2022EE`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLumi(rootOpts, refdata.Period(args[0]), cmd)
		},
	}

	return cmd
}

func runLumi(opts *RootOptions, period refdata.Period, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ds, _, err := loadDataset(opts, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	lumi, err := ds.LuminosityFor(period)
	if err != nil {
		return outputLookupError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(LumiResult{Period: period, Luminosity: lumi})
	}
	fmt.Fprintf(formatter.Writer, "%s pb^-1\n", formatValue(lumi))
	return nil
}

// outputLookupError reports a lookup or computation failure and converts
// it to a command-error exit code. The code in the output is the typed
// error's own code (MISSING_PROCESS, INVALID_EVENT_COUNT, ...), so callers
// scripting against JSON output can branch on exactly what was absent.
func outputLookupError(formatter *OutputFormatter, err error) error {
	code := string(refdata.LookupCode(err))
	if code == "" {
		code = string(weight.ComputeCode(err))
	}
	if code == "" {
		code = ErrCodeGeneric
	}
	if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, code, err)
}
