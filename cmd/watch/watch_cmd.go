package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/LegacyCodeHQ/modguard/cmd/check/formatters"
	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/LegacyCodeHQ/modguard/suppression"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	inputs  check.InputOptions
	workers int
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check whenever the policy, graph dump or baseline changes",
		Long: `Runs a check, then watches the policy, dependency graph dump and baseline
files and runs it again after each change. Invalid inputs are reported and the
watch continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	opts.inputs.AddFlags(cmd)
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Modules checked in parallel (default: GOMAXPROCS)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	if opts.inputs.Revision != "" {
		return fmt.Errorf("--rev cannot be used with watch; committed inputs do not change")
	}
	opts.inputs.Resolve()
	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	files, err := inputFiles(opts.inputs)
	if err != nil {
		return err
	}

	c := &rechecker{opts: opts, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	c.run(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", strings.Join(files, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return watchAndRecheck(ctx, files, cmd.ErrOrStderr(), func() { c.run(ctx) })
}

func inputFiles(inputs check.InputOptions) ([]string, error) {
	var files []string
	for _, path := range []string{inputs.PolicyPath, inputs.GraphPath, inputs.BaselinePath} {
		if !filepath.IsAbs(path) {
			path = filepath.Join(inputs.RepoPath, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		files = append(files, abs)
	}
	return files, nil
}

// rechecker serializes check runs triggered by the debounce timer.
type rechecker struct {
	mu     sync.Mutex
	opts   *watchOptions
	out    io.Writer
	errOut io.Writer
}

func (c *rechecker) run(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, unused, err := checkOnce(ctx, c.opts)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(c.errOut, "check failed: %v\n", err)
		}
		return
	}

	output, err := (&formatters.TextFormatter{}).Format(r, formatters.FormatOptions{UnusedSuppressions: unused})
	if err != nil {
		fmt.Fprintf(c.errOut, "failed to format report: %v\n", err)
		return
	}
	fmt.Fprint(c.out, output)
}

func checkOnce(ctx context.Context, opts *watchOptions) (report.Report, []suppression.Entry, error) {
	in, err := check.LoadInputs(opts.inputs)
	if err != nil {
		return report.Report{}, nil, err
	}
	r, err := check.Run(ctx, in, opts.workers)
	if err != nil {
		return report.Report{}, nil, err
	}
	return r, report.UnusedSuppressions(r, in.Suppressions), nil
}
