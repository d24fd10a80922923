package checker_test

import (
	"testing"

	"github.com/LegacyCodeHQ/modguard/checker"
	"github.com/LegacyCodeHQ/modguard/depgraph"
	"github.com/LegacyCodeHQ/modguard/restriction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSpec(t *testing.T, b *restriction.Builder) *restriction.Spec {
	t.Helper()
	spec, err := b.Build()
	require.NoError(t, err)
	return spec
}

func TestFindRestrictions_FlagsDependencyOutsideAllowList(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":app", func(s *restriction.Scope) {
			s.Reason("layering")
			s.Allow(":core")
		}))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":app", ":core")
	g.AddDependency(":app", ":util")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{g}, spec)

	assert.Equal(t, []checker.Match{
		{Module: ":app", Dependency: ":util", PathToDependency: ":util", Reason: "layering"},
	}, matches)
}

func TestFindRestrictions_UnrestrictedModule(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":app", func(s *restriction.Scope) { s.Allow(":core") }))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":feature", ":a")
	g.AddDependency(":feature", ":b")
	g.AddDependency(":feature", ":c")

	matches := checker.FindRestrictions(":feature", []*depgraph.DependencyGraph{g}, spec)

	assert.Empty(t, matches)
}

func TestFindRestrictions_EmptyAllowListFlagsEverything(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":domain", func(s *restriction.Scope) { s.Reason("pure domain") }))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":domain", ":data")
	g.AddDependency(":domain", "io.ktor:ktor-client")

	matches := checker.FindRestrictions(":domain", []*depgraph.DependencyGraph{g}, spec)

	require.Len(t, matches, 2)
	assert.Equal(t, ":data", matches[0].Dependency)
	assert.Equal(t, "io.ktor:ktor-client", matches[1].Dependency)
	assert.Equal(t, "pure domain", matches[1].Reason)
}

func TestFindRestrictions_NoDependencies(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().RestrictModule(":leaf", nil))
	g := depgraph.New("compileClasspath")
	g.AddNode(":leaf")

	assert.Empty(t, checker.FindRestrictions(":leaf", []*depgraph.DependencyGraph{g}, spec))
	assert.Empty(t, checker.FindRestrictions(":leaf", nil, spec))
}

func TestFindRestrictions_UnspecifiedReason(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().RestrictModule(":app", nil))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":app", ":util")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{g}, spec)

	require.Len(t, matches, 1)
	assert.Equal(t, restriction.UnspecifiedReason, matches[0].Reason)
}

func TestFindRestrictions_DeduplicatesAcrossScopes(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().RestrictModule(":app", nil))
	compile := depgraph.New("compileClasspath")
	compile.AddDependency(":app", ":util")
	test := depgraph.New("testCompileClasspath")
	test.AddDependency(":app", ":util")
	fixtures := depgraph.New("testFixturesCompileClasspath")
	fixtures.AddDependency(":app", ":util")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{compile, test, fixtures}, spec)

	assert.Len(t, matches, 1)
}

func TestFindRestrictions_CycleTerminates(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":a", func(s *restriction.Scope) { s.Reason("no b") }))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":a", ":b")
	g.AddDependency(":b", ":a")

	matches := checker.FindRestrictions(":a", []*depgraph.DependencyGraph{g}, spec)

	assert.Equal(t, []checker.Match{
		{Module: ":a", Dependency: ":b", PathToDependency: ":b", Reason: "no b"},
	}, matches)
}

func TestFindRestrictions_InheritedDependencyShowsPath(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":app", func(s *restriction.Scope) {
			s.Reason("no networking in app")
			s.AllowPrefix(":core")
		}))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":app", ":core")
	g.AddDependency(":core", ":core:network")
	g.AddDependency(":core:network", "com.squareup.okhttp3:okhttp")
	g.AddInheritedDependency(":app", ":core:network")
	g.AddInheritedDependency(":app", "com.squareup.okhttp3:okhttp")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{g}, spec)

	assert.Equal(t, []checker.Match{
		{
			Module:           ":app",
			Dependency:       "com.squareup.okhttp3:okhttp",
			PathToDependency: ":app -> :core -> :core:network -> com.squareup.okhttp3:okhttp",
			Reason:           "no networking in app",
		},
	}, matches)
}

func TestFindRestrictions_InheritedWithoutDeclaredChainFallsBack(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().RestrictModule(":app", nil))
	g := depgraph.New("compileClasspath")
	g.AddInheritedDependency(":app", "okio:okio")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{g}, spec)

	require.Len(t, matches, 1)
	assert.Equal(t, "okio:okio", matches[0].PathToDependency)
}

func TestFindRestrictions_DeclaredInOneScopeIsDirect(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().RestrictModule(":app", nil))
	compile := depgraph.New("compileClasspath")
	compile.AddDependency(":app", ":core")
	compile.AddDependency(":core", ":util")
	compile.AddInheritedDependency(":app", ":util")
	test := depgraph.New("testCompileClasspath")
	test.AddDependency(":app", ":util")

	matches := checker.FindRestrictions(":app", []*depgraph.DependencyGraph{compile, test}, spec)

	require.Len(t, matches, 2)
	assert.Equal(t, ":core", matches[0].PathToDependency)
	assert.Equal(t, ":util", matches[1].PathToDependency)
}

func TestFindRestrictions_DependencyRestriction(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictDependency(":legacy", func(s *restriction.Scope) {
			s.Reason("only the app shell may use legacy")
			s.Allow(":app")
		}))
	app := depgraph.New("compileClasspath")
	app.AddDependency(":app", ":legacy")
	feature := depgraph.New("compileClasspath")
	feature.AddDependency(":feature", ":legacy")
	feature.AddDependency(":feature", ":core")

	assert.Empty(t, checker.FindRestrictions(":app", []*depgraph.DependencyGraph{app}, spec))
	assert.Equal(t, []checker.Match{
		{
			Module:           ":feature",
			Dependency:       ":legacy",
			PathToDependency: ":legacy",
			Reason:           "only the app shell may use legacy",
		},
	}, checker.FindRestrictions(":feature", []*depgraph.DependencyGraph{feature}, spec))
}

func TestFindRestrictions_ModuleRestrictionTakesPrecedence(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":feature", func(s *restriction.Scope) { s.Reason("module rule") }).
		RestrictDependency(":legacy", func(s *restriction.Scope) { s.Reason("dependency rule") }))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":feature", ":legacy")

	matches := checker.FindRestrictions(":feature", []*depgraph.DependencyGraph{g}, spec)

	require.Len(t, matches, 1)
	assert.Equal(t, "module rule", matches[0].Reason)
}

func TestFindRestrictions_AllowedByModuleStillCheckedByDependency(t *testing.T) {
	spec := buildSpec(t, restriction.NewBuilder().
		RestrictModule(":feature", func(s *restriction.Scope) { s.Allow(":legacy") }).
		RestrictDependency(":legacy", func(s *restriction.Scope) { s.Reason("dependency rule") }))
	g := depgraph.New("compileClasspath")
	g.AddDependency(":feature", ":legacy")

	matches := checker.FindRestrictions(":feature", []*depgraph.DependencyGraph{g}, spec)

	require.Len(t, matches, 1)
	assert.Equal(t, "dependency rule", matches[0].Reason)
}
