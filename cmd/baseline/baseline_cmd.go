package baseline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/LegacyCodeHQ/modguard/config"
	"github.com/spf13/cobra"
)

type baselineOptions struct {
	inputs  check.InputOptions
	reason  string
	workers int
	stdout  bool
}

// Cmd represents the baseline command.
var Cmd = NewCommand()

// NewCommand returns a new baseline command instance.
func NewCommand() *cobra.Command {
	opts := &baselineOptions{}

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Write a baseline that suppresses every current violation",
		Long: `Runs a check and writes every violation, fatal or already suppressed, to the
baseline file. Existing suppressions keep their reasons. A check against the
written baseline reports no fatal violations.

Example usage:
  modguard baseline
  modguard baseline --reason "accepted during migration"
  modguard baseline --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBaseline(cmd, opts)
		},
	}

	opts.inputs.AddFlags(cmd)
	cmd.Flags().StringVar(&opts.reason, "reason", "", "Reason recorded for new suppressions (default: the violated restriction's reason)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Modules checked in parallel (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the baseline instead of writing the baseline file")

	return cmd
}

func runBaseline(cmd *cobra.Command, opts *baselineOptions) error {
	if opts.inputs.Revision != "" && !opts.stdout {
		return fmt.Errorf("--rev requires --stdout; the baseline of a revision cannot be written to the working tree")
	}
	opts.inputs.Resolve()
	cmd.SilenceUsage = true

	in, err := check.LoadInputs(opts.inputs)
	if err != nil {
		return err
	}
	r, err := check.Run(cmd.Context(), in, opts.workers)
	if err != nil {
		return err
	}

	entries := r.Baseline(opts.reason)
	data, err := config.MarshalBaseline(entries)
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	if opts.stdout {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path := opts.inputs.BaselinePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.inputs.RepoPath, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d suppression(s) to %s\n", len(entries), path)
	return nil
}
