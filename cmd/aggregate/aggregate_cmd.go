package aggregate

import (
	"fmt"
	"os"

	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/LegacyCodeHQ/modguard/cmd/check/formatters"
	"github.com/LegacyCodeHQ/modguard/internal/mcplogdlog"
	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/spf13/cobra"
)

type aggregateOptions struct {
	outputFormat string
	allowFatal   bool
}

// Cmd represents the aggregate command.
var Cmd = NewCommand()

// NewCommand returns a new aggregate command instance.
func NewCommand() *cobra.Command {
	opts := &aggregateOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "aggregate <report.json>...",
		Short: "Merge JSON reports of partial checks into one report",
		Long: `Merges reports produced by 'modguard check --format=json', for example one
per build shard, into a single project report. Matches reported by several
inputs appear once.

Example usage:
  modguard aggregate shard-1.json shard-2.json
  modguard aggregate --format=json build/reports/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatters.OutputFormatText, formatters.OutputFormatJSON))
	cmd.Flags().BoolVar(&opts.allowFatal, "allow-fatal", false, "Exit successfully even when the merged report has fatal matches")

	return cmd
}

func runAggregate(cmd *cobra.Command, opts *aggregateOptions, paths []string) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	partials := make([]report.Report, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read report: %w", err)
		}
		r, err := formatters.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("failed to parse report %s: %w", path, err)
		}
		partials = append(partials, r)
	}

	merged := report.Merge(partials...)
	mcplogdlog.Info("reports merged", map[string]any{
		"inputs":  len(paths),
		"modules": len(merged.Modules),
	})

	output, err := formatter.Format(merged, formatters.FormatOptions{})
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), output); err != nil {
		return err
	}

	if merged.HasFatal() && !opts.allowFatal {
		return fmt.Errorf("%w: %d fatal match(es)", check.ErrFatalMatches, merged.FatalCount())
	}
	return nil
}
