package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hepnorm/hepnorm/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the reference tables against their schemas",
		Long: `Validate every JSON reference table in the dataset directory against
its embedded CUE schema: luminosities and cross sections must be positive
numbers, branching fractions must lie in [0,1], period labels must start
with a four-digit year. All violations are reported, not just the first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dir, _, err := resolveInputs(opts)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("validating dataset %s", dir)

	validationErrors, err := schema.ValidateDir(dir)
	if err != nil {
		if outErr := formatter.Error(ErrCodeNotFound, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, ErrCodeNotFound, err)
	}

	if len(validationErrors) > 0 {
		result := ValidationResult{Valid: false, Errors: validationErrors}
		if opts.Format == "json" {
			if err := formatter.Error("validation_failed", fmt.Sprintf("%d error(s)", len(validationErrors)), result); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %d validation error(s):\n", len(validationErrors))
			for _, ve := range validationErrors {
				fmt.Fprintf(formatter.Writer, "  %s\n", ve.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(validationErrors)))
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ All tables valid")
	return nil
}

// outputLoadError reports a loader error and converts it to an ExitError
// with a command-error exit code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		if outErr := formatter.Error(le.Code, le.Message, nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, le.Code, err)
	}
	if outErr := formatter.Error(ErrCodeGeneric, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
}
