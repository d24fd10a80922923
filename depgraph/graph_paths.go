package depgraph

import "strings"

// PathSeparator joins node identifiers in a rendered dependency path.
const PathSeparator = " -> "

// DirectDependency is a deduplicated outgoing edge target of a node.
type DirectDependency struct {
	ID string
	// Inherited is true when no scope has a declared edge to ID.
	Inherited bool
	Scopes    []Scope
}

// DirectDependencies returns the distinct targets of from across all graphs,
// in first-seen order. A target declared in any scope counts as declared.
func DirectDependencies(from string, graphs ...*DependencyGraph) []DirectDependency {
	var result []DirectDependency
	index := make(map[string]int)
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, e := range g.OutgoingEdges(from) {
			i, ok := index[e.To]
			if !ok {
				index[e.To] = len(result)
				result = append(result, DirectDependency{
					ID:        e.To,
					Inherited: e.Kind == EdgeInherited,
					Scopes:    []Scope{e.Scope},
				})
				continue
			}
			if e.Kind == EdgeDeclared {
				result[i].Inherited = false
			}
			if !containsScope(result[i].Scopes, e.Scope) {
				result[i].Scopes = append(result[i].Scopes, e.Scope)
			}
		}
	}
	return result
}

func containsScope(scopes []Scope, s Scope) bool {
	for _, existing := range scopes {
		if existing == s {
			return true
		}
	}
	return false
}

// EdgeFilter selects the edges a traversal may follow.
type EdgeFilter func(Edge) bool

// DeclaredOnly follows declared edges and skips inherited ones.
func DeclaredOnly(e Edge) bool {
	return e.Kind == EdgeDeclared
}

// ShortestPath returns the node sequence of a shortest path from source to
// target, or nil when target is unreachable. Ties are broken by edge insertion
// order: the first shortest path discovered wins. Cycles are tolerated.
func (g *DependencyGraph) ShortestPath(source, target string, follow EdgeFilter) []string {
	if !g.ContainsNode(source) || !g.ContainsNode(target) {
		return nil
	}
	if source == target {
		return []string{source}
	}

	parent := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.OutgoingEdges(current) {
			if follow != nil && !follow(e) {
				continue
			}
			if _, seen := parent[e.To]; seen {
				continue
			}
			parent[e.To] = current
			if e.To == target {
				return unwindPath(parent, source, target)
			}
			queue = append(queue, e.To)
		}
	}
	return nil
}

func unwindPath(parent map[string]string, source, target string) []string {
	var reversed []string
	for node := target; node != source; node = parent[node] {
		reversed = append(reversed, node)
	}
	reversed = append(reversed, source)

	path := make([]string, len(reversed))
	for i, node := range reversed {
		path[len(reversed)-1-i] = node
	}
	return path
}

// Reachable returns every node reachable from source, excluding source itself,
// in breadth-first order.
func (g *DependencyGraph) Reachable(source string, follow EdgeFilter) []string {
	visited := map[string]bool{source: true}
	queue := []string{source}
	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.OutgoingEdges(current) {
			if follow != nil && !follow(e) {
				continue
			}
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			result = append(result, e.To)
			queue = append(queue, e.To)
		}
	}
	return result
}

// Subgraph returns the part of g reachable from source, source included.
// Edges keep their scope and kind.
func (g *DependencyGraph) Subgraph(source string, follow EdgeFilter) *DependencyGraph {
	sub := New(g.scope)
	if !g.ContainsNode(source) {
		return sub
	}
	keep := append([]string{source}, g.Reachable(source, follow)...)
	for _, node := range keep {
		sub.AddNode(node)
	}
	for _, node := range keep {
		for _, e := range g.OutgoingEdges(node) {
			if follow != nil && !follow(e) {
				continue
			}
			sub.addEdge(e)
		}
	}
	return sub
}

// Filter returns a copy of g holding every node and only the edges follow accepts.
func (g *DependencyGraph) Filter(follow EdgeFilter) *DependencyGraph {
	filtered := New(g.scope)
	for _, node := range g.nodes {
		filtered.AddNode(node)
	}
	for _, e := range g.edges {
		if follow == nil || follow(e) {
			filtered.addEdge(e)
		}
	}
	return filtered
}

// FormatPath renders a node sequence for display.
func FormatPath(path []string) string {
	return strings.Join(path, PathSeparator)
}
