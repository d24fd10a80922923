package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/LegacyCodeHQ/modguard/depgraph"
	"github.com/spf13/cobra"
)

const (
	formatDOT     = "dot"
	formatMermaid = "mermaid"
	formatJSON    = "json"
	formatCycles  = "cycles"
)

type graphOptions struct {
	inputs       check.InputOptions
	outputFormat string
	module       string
	declaredOnly bool
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatDOT,
	}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the module dependency graph.",
		Long: `Render the merged dependency graph of every module, or only the part
reachable from one module. Inherited dependencies are drawn dashed.

Examples:
  modguard graph                           # DOT for the whole project
  modguard graph -m :app -f mermaid        # what :app depends on
  modguard graph -f cycles                 # list dependency cycles
  modguard graph --declared-only -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat, fmt.Sprintf("Output format (%s)", supportedFormats()))
	cmd.Flags().StringVarP(&opts.module, "module", "m", "", "Only show what this module depends on, directly or not")
	cmd.Flags().BoolVar(&opts.declaredOnly, "declared-only", false, "Leave out inherited dependencies")
	cmd.Flags().StringVarP(&opts.inputs.RepoPath, "repo", "r", "", "Project directory the graph path is relative to (default: current directory)")
	cmd.Flags().StringVar(&opts.inputs.Revision, "rev", "", "Read the graph dump as committed at this git revision")
	cmd.Flags().StringVarP(&opts.inputs.GraphPath, "graph", "g", "", fmt.Sprintf("Dependency graph dump (default: $%s)", check.EnvGraph))

	return cmd
}

func supportedFormats() string {
	return strings.Join([]string{formatDOT, formatMermaid, formatJSON, formatCycles}, ", ")
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	switch opts.outputFormat {
	case formatDOT, formatMermaid, formatJSON, formatCycles:
	default:
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
	}
	opts.inputs.Resolve()
	cmd.SilenceUsage = true

	dump, err := check.LoadGraph(opts.inputs)
	if err != nil {
		return err
	}

	var follow depgraph.EdgeFilter
	if opts.declaredOnly {
		follow = depgraph.DeclaredOnly
	}

	g := dump.Graph()
	if opts.module != "" {
		if !g.ContainsNode(opts.module) {
			return fmt.Errorf("module %s is not in the dependency graph", opts.module)
		}
		g = g.Subgraph(opts.module, follow)
	} else {
		g = g.Filter(follow)
	}

	output, err := render(g, opts.outputFormat)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

func render(g *depgraph.DependencyGraph, format string) (string, error) {
	switch format {
	case formatMermaid:
		return g.Mermaid(), nil
	case formatJSON:
		return renderJSON(g)
	case formatCycles:
		return renderCycles(g)
	default:
		var buf bytes.Buffer
		if err := g.WriteDOT(&buf); err != nil {
			return "", fmt.Errorf("failed to render DOT: %w", err)
		}
		return buf.String(), nil
	}
}

type jsonGraphOutput struct {
	Nodes  []jsonGraphNode `json:"nodes"`
	Edges  []jsonGraphEdge `json:"edges"`
	Cycles [][]string      `json:"cycles"`
}

type jsonGraphNode struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type jsonGraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Scope string `json:"scope"`
	Kind  string `json:"kind"`
}

func renderJSON(g *depgraph.DependencyGraph) (string, error) {
	cycles, err := g.Cycles()
	if err != nil {
		return "", err
	}
	if cycles == nil {
		cycles = [][]string{}
	}

	output := jsonGraphOutput{
		Nodes:  []jsonGraphNode{},
		Edges:  []jsonGraphEdge{},
		Cycles: cycles,
	}
	for _, node := range g.Nodes() {
		output.Nodes = append(output.Nodes, jsonGraphNode{ID: node, Kind: depgraph.KindOf(node).String()})
	}
	for _, e := range g.Edges() {
		output.Edges = append(output.Edges, jsonGraphEdge{
			From:  e.From,
			To:    e.To,
			Scope: string(e.Scope),
			Kind:  e.Kind.String(),
		})
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonBytes) + "\n", nil
}

func renderCycles(g *depgraph.DependencyGraph) (string, error) {
	cycles, err := g.Cycles()
	if err != nil {
		return "", err
	}
	if len(cycles) == 0 {
		return "No dependency cycles.\n", nil
	}

	var sb strings.Builder
	for _, cycle := range cycles {
		sb.WriteString(strings.Join(cycle, ", "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
