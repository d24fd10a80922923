package depgraph

import "strings"

// Scope names the resolution context an edge was observed in, e.g. "compileClasspath".
type Scope string

// MergedScope is the scope reported by graphs produced with Merge.
const MergedScope Scope = "*"

// NodeKind discriminates project modules from external artifacts.
type NodeKind int

const (
	NodeKindModule NodeKind = iota
	NodeKindExternal
)

// KindOf classifies a node identifier. Module paths start with ':'; anything else
// is treated as an external "group:artifact" coordinate.
func KindOf(id string) NodeKind {
	if strings.HasPrefix(id, ":") {
		return NodeKindModule
	}
	return NodeKindExternal
}

func (k NodeKind) String() string {
	if k == NodeKindModule {
		return "module"
	}
	return "external"
}

// EdgeKind tells whether the source declared the dependency itself or only
// sees it on its resolved classpath.
type EdgeKind int

const (
	EdgeDeclared EdgeKind = iota
	EdgeInherited
)

func (k EdgeKind) String() string {
	if k == EdgeInherited {
		return "inherited"
	}
	return "declared"
}

// Edge is a directed dependency observed under a scope.
type Edge struct {
	From  string
	To    string
	Scope Scope
	Kind  EdgeKind
}

// DependencyGraph is a directed multigraph of module and artifact nodes.
// Node and edge order follow insertion order.
type DependencyGraph struct {
	scope     Scope
	nodes     []string
	nodeIndex map[string]struct{}
	edges     []Edge
	edgeIndex map[Edge]struct{}
	outgoing  map[string][]int
}

// New returns an empty graph for the given scope.
func New(scope Scope) *DependencyGraph {
	return &DependencyGraph{
		scope:     scope,
		nodeIndex: make(map[string]struct{}),
		edgeIndex: make(map[Edge]struct{}),
		outgoing:  make(map[string][]int),
	}
}

// Scope returns the resolution context of the graph.
func (g *DependencyGraph) Scope() Scope {
	return g.scope
}

// AddNode registers a node. Adding a known node is a no-op.
func (g *DependencyGraph) AddNode(id string) {
	if _, ok := g.nodeIndex[id]; ok {
		return
	}
	g.nodeIndex[id] = struct{}{}
	g.nodes = append(g.nodes, id)
}

// AddDependency records that from declares a dependency on to.
// Self dependencies are ignored.
func (g *DependencyGraph) AddDependency(from, to string) {
	g.addEdge(Edge{From: from, To: to, Scope: g.scope, Kind: EdgeDeclared})
}

// AddInheritedDependency records that to is visible to from only through
// resolution, without from declaring it.
func (g *DependencyGraph) AddInheritedDependency(from, to string) {
	g.addEdge(Edge{From: from, To: to, Scope: g.scope, Kind: EdgeInherited})
}

func (g *DependencyGraph) addEdge(e Edge) {
	if e.From == e.To {
		return
	}
	// Unknown endpoints are registered rather than rejected.
	g.AddNode(e.From)
	g.AddNode(e.To)
	if _, ok := g.edgeIndex[e]; ok {
		return
	}
	g.edgeIndex[e] = struct{}{}
	g.outgoing[e.From] = append(g.outgoing[e.From], len(g.edges))
	g.edges = append(g.edges, e)
}

// Nodes returns node identifiers in insertion order.
func (g *DependencyGraph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Edges returns all edges in insertion order.
func (g *DependencyGraph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// ContainsNode reports whether id is part of the graph.
func (g *DependencyGraph) ContainsNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// IsEmpty reports whether the graph has no nodes.
func (g *DependencyGraph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// OutgoingEdges returns the edges leaving from, in insertion order.
func (g *DependencyGraph) OutgoingEdges(from string) []Edge {
	indexes := g.outgoing[from]
	result := make([]Edge, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, g.edges[i])
	}
	return result
}

// Targets returns the distinct direct targets of from, in first-seen order.
func (g *DependencyGraph) Targets(from string) []string {
	seen := make(map[string]bool)
	var targets []string
	for _, e := range g.OutgoingEdges(from) {
		if seen[e.To] {
			continue
		}
		seen[e.To] = true
		targets = append(targets, e.To)
	}
	return targets
}

// Merge combines graphs into a single multigraph. Scope tags are preserved on
// every edge; the same ordered pair may appear once per scope and kind.
func Merge(graphs ...*DependencyGraph) *DependencyGraph {
	merged := New(MergedScope)
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, node := range g.nodes {
			merged.AddNode(node)
		}
		for _, e := range g.edges {
			merged.addEdge(e)
		}
	}
	return merged
}

// Merge returns a new graph holding g and other.
func (g *DependencyGraph) Merge(other *DependencyGraph) *DependencyGraph {
	return Merge(g, other)
}
