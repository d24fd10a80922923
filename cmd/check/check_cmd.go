package check

import (
	"errors"
	"fmt"
	"os"

	"github.com/LegacyCodeHQ/modguard/cmd/check/formatters"
	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/spf13/cobra"
)

// ErrFatalMatches is returned when the report has unsuppressed violations.
var ErrFatalMatches = errors.New("restricted dependencies found")

type checkOptions struct {
	inputs       InputOptions
	outputFormat string
	outputPath   string
	workers      int
	failOnUnused bool
}

// Cmd represents the check command.
var Cmd = NewCommand()

// NewCommand returns a new check command instance.
func NewCommand() *cobra.Command {
	opts := &checkOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check module dependencies against the restriction policy",
		Long: `Checks every module of a dependency graph dump against the restriction
policy. Violations listed in the baseline are reported as suppressed; any other
violation is fatal and makes the command exit with a non-zero status.

Example usage:
  modguard check
  modguard check --format=json --output=build/modguard-report.json
  modguard check --rev main --policy build/modguard.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	opts.inputs.AddFlags(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatters.OutputFormatText, formatters.OutputFormatJSON))
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Modules checked in parallel (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.failOnUnused, "fail-on-unused", false, "Fail when the baseline has entries no violation uses")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}
	opts.inputs.Resolve()
	cmd.SilenceUsage = true

	in, err := LoadInputs(opts.inputs)
	if err != nil {
		return err
	}
	r, err := Run(cmd.Context(), in, opts.workers)
	if err != nil {
		return err
	}
	unused := report.UnusedSuppressions(r, in.Suppressions)

	output, err := formatter.Format(r, formatters.FormatOptions{UnusedSuppressions: unused})
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	if err := writeOutput(cmd, opts.outputPath, output); err != nil {
		return err
	}

	if r.HasFatal() {
		return fmt.Errorf("%w: %d fatal match(es)", ErrFatalMatches, r.FatalCount())
	}
	if opts.failOnUnused && len(unused) > 0 {
		return fmt.Errorf("baseline has %d unused suppression(s)", len(unused))
	}
	return nil
}

func writeOutput(cmd *cobra.Command, path, output string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
	return nil
}
