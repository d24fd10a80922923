package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortestPath_Linear(t *testing.T) {
	// A → B → C
	g := New("compileClasspath")
	g.AddDependency("A", "B")
	g.AddDependency("B", "C")

	assert.Equal(t, []string{"A", "B", "C"}, g.ShortestPath("A", "C", nil))
}

func TestShortestPath_PrefersFewerHops(t *testing.T) {
	// A → D → E → C (long path, inserted first)
	// A → B → C
	g := New("compileClasspath")
	g.AddDependency("A", "D")
	g.AddDependency("D", "E")
	g.AddDependency("E", "C")
	g.AddDependency("A", "B")
	g.AddDependency("B", "C")

	assert.Equal(t, []string{"A", "B", "C"}, g.ShortestPath("A", "C", nil))
}

func TestShortestPath_TieBrokenByInsertionOrder(t *testing.T) {
	// A → B, A → C, B → D, C → D
	g := New("compileClasspath")
	g.AddDependency("A", "B")
	g.AddDependency("A", "C")
	g.AddDependency("C", "D")
	g.AddDependency("B", "D")

	assert.Equal(t, []string{"A", "B", "D"}, g.ShortestPath("A", "D", nil))
}

func TestShortestPath_Cycle(t *testing.T) {
	// A → B → A, B → C
	g := New("compileClasspath")
	g.AddDependency("A", "B")
	g.AddDependency("B", "A")
	g.AddDependency("B", "C")

	assert.Equal(t, []string{"A", "B", "C"}, g.ShortestPath("A", "C", nil))
	assert.Nil(t, g.ShortestPath("C", "A", nil))
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := New("compileClasspath")
	g.AddDependency("A", "B")
	g.AddDependency("C", "D")

	assert.Nil(t, g.ShortestPath("A", "D", nil))
	assert.Nil(t, g.ShortestPath("A", "X", nil))
}

func TestShortestPath_SameNode(t *testing.T) {
	g := New("compileClasspath")
	g.AddDependency("A", "B")

	assert.Equal(t, []string{"A"}, g.ShortestPath("A", "A", nil))
}

func TestShortestPath_DeclaredOnly(t *testing.T) {
	g := New("compileClasspath")
	g.AddInheritedDependency("app", "okhttp")
	g.AddDependency("app", "core")
	g.AddDependency("core", "okhttp")

	assert.Equal(t, []string{"app", "okhttp"}, g.ShortestPath("app", "okhttp", nil))
	assert.Equal(t, []string{"app", "core", "okhttp"}, g.ShortestPath("app", "okhttp", DeclaredOnly))
}

func TestDirectDependencies_DeduplicatesAcrossScopes(t *testing.T) {
	compile := New("compileClasspath")
	compile.AddInheritedDependency(":app", ":util")
	compile.AddDependency(":app", ":core")
	test := New("testCompileClasspath")
	test.AddDependency(":app", ":core")
	test.AddDependency(":app", ":util")
	test.AddDependency(":core", ":util")

	deps := DirectDependencies(":app", compile, test)

	assert.Equal(t, []DirectDependency{
		{ID: ":util", Inherited: false, Scopes: []Scope{"compileClasspath", "testCompileClasspath"}},
		{ID: ":core", Inherited: false, Scopes: []Scope{"compileClasspath", "testCompileClasspath"}},
	}, deps)
}

func TestDirectDependencies_InheritedOnly(t *testing.T) {
	g := New("compileClasspath")
	g.AddInheritedDependency(":app", "okio:okio")

	deps := DirectDependencies(":app", g)

	assert.Equal(t, []DirectDependency{
		{ID: "okio:okio", Inherited: true, Scopes: []Scope{"compileClasspath"}},
	}, deps)
}

func TestDirectDependencies_NoEdges(t *testing.T) {
	g := New("compileClasspath")
	g.AddNode(":app")

	assert.Empty(t, DirectDependencies(":app", g))
}

func TestReachable(t *testing.T) {
	g := New("compileClasspath")
	g.AddDependency("A", "B")
	g.AddDependency("B", "A")
	g.AddDependency("B", "C")
	g.AddDependency("D", "A")

	assert.Equal(t, []string{"B", "C"}, g.Reachable("A", nil))
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, ":app -> :core -> okio:okio", FormatPath([]string{":app", ":core", "okio:okio"}))
}

func TestSubgraph_KeepsReachablePart(t *testing.T) {
	g := New(MergedScope)
	g.AddDependency(":app", ":core")
	g.AddInheritedDependency(":app", "okio:okio")
	g.AddDependency(":core", "okio:okio")
	g.AddDependency(":other", ":core")

	sub := g.Subgraph(":core", nil)

	assert.Equal(t, []string{":core", "okio:okio"}, sub.Nodes())
	assert.Equal(t, []Edge{{From: ":core", To: "okio:okio", Scope: MergedScope}}, sub.Edges())
}

func TestSubgraph_DeclaredOnlyDropsInheritedEdges(t *testing.T) {
	g := New(MergedScope)
	g.AddDependency(":app", ":core")
	g.AddInheritedDependency(":app", "okio:okio")

	sub := g.Subgraph(":app", DeclaredOnly)

	assert.Equal(t, []string{":app", ":core"}, sub.Nodes())
	assert.Len(t, sub.Edges(), 1)
}

func TestSubgraph_UnknownSource(t *testing.T) {
	g := New(MergedScope)
	g.AddDependency(":app", ":core")

	assert.True(t, g.Subgraph(":missing", nil).IsEmpty())
}

func TestFilter_KeepsNodesAndAcceptedEdges(t *testing.T) {
	g := New(MergedScope)
	g.AddDependency(":app", ":core")
	g.AddInheritedDependency(":app", "okio:okio")

	filtered := g.Filter(DeclaredOnly)

	assert.Equal(t, g.Nodes(), filtered.Nodes())
	assert.Equal(t, []Edge{{From: ":app", To: ":core", Scope: MergedScope}}, filtered.Edges())
	assert.Len(t, g.Edges(), 2)
}
