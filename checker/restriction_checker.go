package checker

import (
	"github.com/LegacyCodeHQ/modguard/depgraph"
	"github.com/LegacyCodeHQ/modguard/restriction"
)

// Match is a dependency that violates a restriction.
type Match struct {
	Module     string `json:"module"`
	Dependency string `json:"dependency"`
	// PathToDependency equals Dependency for declared dependencies and shows
	// the declared chain for dependencies the module only inherits.
	PathToDependency string `json:"pathToDependency"`
	Reason           string `json:"reason"`
}

// FindRestrictions returns the violations of module given its per-scope graphs.
// Paths are resolved over the merge of the supplied graphs.
func FindRestrictions(module string, graphs []*depgraph.DependencyGraph, spec *restriction.Spec) []Match {
	if !spec.IsRestricted(module) {
		return nil
	}
	return findRestrictions(module, graphs, depgraph.Merge(graphs...), spec)
}

// findRestrictions evaluates module's direct dependencies. global is only read.
func findRestrictions(
	module string,
	graphs []*depgraph.DependencyGraph,
	global *depgraph.DependencyGraph,
	spec *restriction.Spec,
) []Match {
	moduleRestriction, hasModuleRestriction := spec.ModuleRestriction(module)

	var matches []Match
	for _, dep := range depgraph.DirectDependencies(module, graphs...) {
		if dep.ID == module {
			continue
		}

		reason, violated := "", false
		if hasModuleRestriction && !moduleRestriction.Allows(dep.ID) {
			reason, violated = moduleRestriction.Reason, true
		} else if r, ok := spec.DependencyRestriction(dep.ID); ok && !r.AllowsConsumer(module) {
			reason, violated = r.Reason, true
		}
		if !violated {
			continue
		}

		matches = append(matches, Match{
			Module:           module,
			Dependency:       dep.ID,
			PathToDependency: pathToDependency(global, module, dep),
			Reason:           reason,
		})
	}
	return matches
}

func pathToDependency(global *depgraph.DependencyGraph, module string, dep depgraph.DirectDependency) string {
	if !dep.Inherited || global == nil {
		return dep.ID
	}
	path := global.ShortestPath(module, dep.ID, depgraph.DeclaredOnly)
	if len(path) < 2 {
		return dep.ID
	}
	return depgraph.FormatPath(path)
}
