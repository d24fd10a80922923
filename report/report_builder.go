package report

import (
	"sort"

	"github.com/LegacyCodeHQ/modguard/checker"
	"github.com/LegacyCodeHQ/modguard/suppression"
)

// Build classifies matches against suppressions and groups them per module.
// A match with a suppression for its (module, dependency) pair is only ever
// reported as suppressed.
func Build(matches []checker.Match, suppressions *suppression.Map) Report {
	modules := make(map[string]*ModuleReport)
	for _, match := range matches {
		path := match.PathToDependency
		if path == "" {
			path = match.Dependency
		}

		m := moduleReport(modules, match.Module)
		if s, ok := suppressions.Get(match.Module, match.Dependency); ok {
			m.Suppressed = append(m.Suppressed, SuppressedMatch{
				ModuleID:         match.Module,
				Dependency:       match.Dependency,
				PathToDependency: path,
				Reason:           s.Reason,
			})
			continue
		}
		m.Fatal = append(m.Fatal, FatalMatch{
			ModuleID:         match.Module,
			Dependency:       match.Dependency,
			PathToDependency: path,
			Reason:           match.Reason,
		})
	}
	return finalize(modules)
}

// Merge combines partial reports. Reports for the same module are concatenated;
// identical matches collapse, so merging a report with itself is a no-op.
// A dependency suppressed in any partial report is never reported as fatal.
func Merge(reports ...Report) Report {
	modules := make(map[string]*ModuleReport)
	for _, r := range reports {
		for _, partial := range r.Modules {
			m := moduleReport(modules, partial.Module)
			for _, f := range partial.Fatal {
				f.ModuleID = partial.Module
				m.Fatal = append(m.Fatal, f)
			}
			for _, s := range partial.Suppressed {
				s.ModuleID = partial.Module
				m.Suppressed = append(m.Suppressed, s)
			}
		}
	}
	for _, m := range modules {
		m.Fatal = dropSuppressed(m.Fatal, m.Suppressed)
	}
	return finalize(modules)
}

func dropSuppressed(fatal []FatalMatch, suppressed []SuppressedMatch) []FatalMatch {
	if len(suppressed) == 0 {
		return fatal
	}
	covered := make(map[string]struct{}, len(suppressed))
	for _, s := range suppressed {
		covered[s.Dependency] = struct{}{}
	}
	kept := fatal[:0]
	for _, f := range fatal {
		if _, ok := covered[f.Dependency]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func moduleReport(modules map[string]*ModuleReport, module string) *ModuleReport {
	m, ok := modules[module]
	if !ok {
		m = &ModuleReport{Module: module}
		modules[module] = m
	}
	return m
}

// finalize deduplicates and sorts every module, drops empty ones and orders modules.
func finalize(modules map[string]*ModuleReport) Report {
	result := Report{Modules: make([]ModuleReport, 0, len(modules))}
	for _, m := range modules {
		m.Fatal = dedupeSorted(m.Fatal, fatalLess)
		m.Suppressed = dedupeSorted(m.Suppressed, suppressedLess)
		if m.IsEmpty() {
			continue
		}
		if m.Fatal == nil {
			m.Fatal = []FatalMatch{}
		}
		if m.Suppressed == nil {
			m.Suppressed = []SuppressedMatch{}
		}
		result.Modules = append(result.Modules, *m)
	}
	sort.Slice(result.Modules, func(i, j int) bool {
		return result.Modules[i].Module < result.Modules[j].Module
	})
	return result
}

func fatalLess(a, b FatalMatch) bool {
	return matchLess(a.Dependency, a.PathToDependency, a.Reason, b.Dependency, b.PathToDependency, b.Reason)
}

func suppressedLess(a, b SuppressedMatch) bool {
	return matchLess(a.Dependency, a.PathToDependency, a.Reason, b.Dependency, b.PathToDependency, b.Reason)
}

// matchLess orders by dependency; path and reason only break ties.
func matchLess(depA, pathA, reasonA, depB, pathB, reasonB string) bool {
	if depA != depB {
		return depA < depB
	}
	if pathA != pathB {
		return pathA < pathB
	}
	return reasonA < reasonB
}

func dedupeSorted[T comparable](items []T, less func(a, b T) bool) []T {
	if len(items) == 0 {
		return nil
	}
	sort.Slice(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	result := items[:1]
	for _, item := range items[1:] {
		if item != result[len(result)-1] {
			result = append(result, item)
		}
	}
	return result
}
