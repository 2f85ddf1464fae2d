package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/registry"
)

// SamplesOptions holds flags for the samples command.
type SamplesOptions struct {
	*RootOptions
	Database string
}

// NewSamplesCommand creates the samples command.
func NewSamplesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SamplesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List registered sample event counts",
		Long: `List every sample registered in the registry with its simulated-event
count and the import run that registered it. Output order is deterministic
(process, period, generator).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSamples(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sample registry database")

	return cmd
}

func runSamples(opts *SamplesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// The manifest is optional here: samples never touches the tables.
	var m, err = resolveManifestOnly(opts.RootOptions)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	reg, err := openRegistry(opts.Database, m)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer reg.Close()

	samples, err := reg.ListSamples(cmd.Context())
	if err != nil {
		return outputLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: err.Error()})
	}

	if opts.Format == "json" {
		return formatter.Success(samples)
	}

	if len(samples) == 0 {
		fmt.Fprintln(formatter.Writer, "no samples registered")
		return nil
	}
	printSampleTable(formatter, samples)
	return nil
}

func printSampleTable(formatter *OutputFormatter, samples []registry.Sample) {
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESS\tPERIOD\tGENERATOR\tN_MC\tIMPORT")
	for _, s := range samples {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Process, s.Period, s.Generator, formatValue(s.EventCount), s.ImportID)
	}
	tw.Flush()
}
