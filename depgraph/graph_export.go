package depgraph

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	graphlib "github.com/dominikbraun/graph"
)

// toGraphlib collapses scopes into a simple directed graph.
func (g *DependencyGraph) toGraphlib() (graphlib.Graph[string, string], error) {
	lg := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, node := range g.nodes {
		if err := lg.AddVertex(node); err != nil &&
			!errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, err
		}
	}

	for _, pair := range g.collapsedEdges() {
		if err := lg.AddEdge(pair.From, pair.To); err != nil &&
			!errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add edge %s -> %s: %w", pair.From, pair.To, err)
		}
	}

	return lg, nil
}

// collapsedEdges returns one edge per ordered pair, in insertion order, with
// Kind set to EdgeDeclared if any scope declares the pair.
func (g *DependencyGraph) collapsedEdges() []Edge {
	var result []Edge
	index := make(map[[2]string]int)
	for _, e := range g.edges {
		key := [2]string{e.From, e.To}
		if i, ok := index[key]; ok {
			if e.Kind == EdgeDeclared {
				result[i].Kind = EdgeDeclared
			}
			continue
		}
		index[key] = len(result)
		result = append(result, Edge{From: e.From, To: e.To, Scope: MergedScope, Kind: e.Kind})
	}
	return result
}

// Cycles returns every dependency cycle as a sorted list of its members.
// Cycles are ordered by their first member.
func (g *DependencyGraph) Cycles() ([][]string, error) {
	lg, err := g.toGraphlib()
	if err != nil {
		return nil, err
	}

	components, err := graphlib.StronglyConnectedComponents(lg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute strongly connected components: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		members := append([]string(nil), component...)
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

// WriteDOT renders the graph in Graphviz DOT format. Nodes and edges are
// written in insertion order so the output is stable across runs.
func (g *DependencyGraph) WriteDOT(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("\n")

	for _, node := range g.nodes {
		shape := "ellipse"
		if KindOf(node) == NodeKindModule {
			shape = "box"
		}
		sb.WriteString(fmt.Sprintf("  %q [shape=%s];\n", node, shape))
	}

	if len(g.edges) > 0 {
		sb.WriteString("\n")
	}
	for _, e := range g.collapsedEdges() {
		if e.Kind == EdgeInherited {
			sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed];\n", e.From, e.To))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %q -> %q;\n", e.From, e.To))
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// Mermaid renders the graph as a Mermaid flowchart.
func (g *DependencyGraph) Mermaid() string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	ids := make(map[string]string, len(g.nodes))
	for i, node := range g.nodes {
		id := fmt.Sprintf("n%d", i)
		ids[node] = id
		if KindOf(node) == NodeKindModule {
			b.WriteString(fmt.Sprintf("  %s[%q]\n", id, node))
		} else {
			b.WriteString(fmt.Sprintf("  %s([%q])\n", id, node))
		}
	}

	for _, e := range g.collapsedEdges() {
		arrow := "-->"
		if e.Kind == EdgeInherited {
			arrow = "-.->"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", ids[e.From], arrow, ids[e.To]))
	}

	return b.String()
}
