package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/modguard/checker"
	"github.com/LegacyCodeHQ/modguard/config"
	"github.com/LegacyCodeHQ/modguard/internal/mcplogdlog"
	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/LegacyCodeHQ/modguard/restriction"
	"github.com/LegacyCodeHQ/modguard/suppression"
	"github.com/LegacyCodeHQ/modguard/vcs"
	"github.com/spf13/cobra"
)

// Environment variables that override the default input locations.
const (
	EnvPolicy   = "MODGUARD_POLICY"
	EnvGraph    = "MODGUARD_GRAPH"
	EnvBaseline = "MODGUARD_BASELINE"
)

const (
	defaultPolicyPath   = "modguard.yaml"
	defaultGraphPath    = "modguard-graph.json"
	defaultBaselinePath = "modguard-baseline.yaml"
)

// InputOptions locates the policy, graph dump and baseline of a project.
type InputOptions struct {
	RepoPath     string
	Revision     string
	PolicyPath   string
	GraphPath    string
	BaselinePath string

	// baselineOptional is set when the baseline location was not chosen
	// explicitly, so a missing file means "no suppressions".
	baselineOptional bool
}

// AddFlags registers the input flags on cmd.
func (o *InputOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.RepoPath, "repo", "r", "", "Project directory the input paths are relative to (default: current directory)")
	cmd.Flags().StringVar(&o.Revision, "rev", "", "Read inputs as committed at this git revision instead of the working tree")
	cmd.Flags().StringVarP(&o.PolicyPath, "policy", "p", "", fmt.Sprintf("Restriction policy file (default: $%s or %s)", EnvPolicy, defaultPolicyPath))
	cmd.Flags().StringVarP(&o.GraphPath, "graph", "g", "", fmt.Sprintf("Dependency graph dump (default: $%s or %s)", EnvGraph, defaultGraphPath))
	cmd.Flags().StringVar(&o.BaselinePath, "baseline", "", fmt.Sprintf("Suppression baseline (default: $%s or %s)", EnvBaseline, defaultBaselinePath))
}

// Resolve fills unset locations from the environment, then from defaults.
func (o *InputOptions) Resolve() {
	if o.RepoPath == "" {
		o.RepoPath = "."
	}
	o.PolicyPath = firstNonEmpty(o.PolicyPath, os.Getenv(EnvPolicy), defaultPolicyPath)
	o.GraphPath = firstNonEmpty(o.GraphPath, os.Getenv(EnvGraph), defaultGraphPath)
	if o.BaselinePath == "" && os.Getenv(EnvBaseline) == "" {
		o.baselineOptional = true
	}
	o.BaselinePath = firstNonEmpty(o.BaselinePath, os.Getenv(EnvBaseline), defaultBaselinePath)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Inputs is everything a check needs.
type Inputs struct {
	Spec         *restriction.Spec
	Graph        *config.GraphFile
	Suppressions *suppression.Map
}

// LoadInputs reads and validates the inputs described by opts. Any invalid
// declaration aborts the load.
func LoadInputs(opts InputOptions) (*Inputs, error) {
	read, err := contentReader(opts)
	if err != nil {
		return nil, err
	}

	policyData, err := read(opts.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	spec, err := config.LoadPolicy(policyData)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy %s: %w", opts.PolicyPath, err)
	}

	graph, err := readGraph(read, opts.GraphPath)
	if err != nil {
		return nil, err
	}

	suppressions := suppression.Empty()
	baselineData, err := read(opts.BaselinePath)
	switch {
	case err == nil:
		suppressions, err = config.LoadBaseline(baselineData)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline %s: %w", opts.BaselinePath, err)
		}
	case opts.baselineOptional && errors.Is(err, fs.ErrNotExist):
		mcplogdlog.Debug("no baseline", map[string]any{"path": opts.BaselinePath})
	default:
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	return &Inputs{Spec: spec, Graph: graph, Suppressions: suppressions}, nil
}

// LoadGraph reads only the dependency graph dump described by opts.
func LoadGraph(opts InputOptions) (*config.GraphFile, error) {
	read, err := contentReader(opts)
	if err != nil {
		return nil, err
	}
	return readGraph(read, opts.GraphPath)
}

func readGraph(read vcs.ContentReader, path string) (*config.GraphFile, error) {
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency graph: %w", err)
	}
	graph, err := config.ParseGraphFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency graph %s: %w", path, err)
	}
	return graph, nil
}

// contentReader reads paths relative to the repo, from the working tree or a revision.
func contentReader(opts InputOptions) (vcs.ContentReader, error) {
	if opts.Revision != "" {
		return vcs.GitRevisionContentReader(opts.RepoPath, opts.Revision)
	}
	fsReader := vcs.FilesystemContentReader()
	return func(path string) ([]byte, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.RepoPath, path)
		}
		return fsReader(path)
	}, nil
}

// Run checks every module of the graph dump and builds the report.
func Run(ctx context.Context, in *Inputs, workers int) (report.Report, error) {
	results, err := checker.CheckAll(ctx, in.Graph, in.Graph.ModuleIDs(), in.Spec, checker.Options{Workers: workers})
	if err != nil {
		return report.Report{}, err
	}
	r := report.Build(checker.Matches(results), in.Suppressions)
	mcplogdlog.Info("check finished", map[string]any{
		"fatal":      r.FatalCount(),
		"suppressed": r.SuppressedCount(),
	})
	return r, nil
}
