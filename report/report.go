package report

import (
	"sort"

	"github.com/LegacyCodeHQ/modguard/suppression"
)

// FatalMatch is a violation without a suppression.
type FatalMatch struct {
	ModuleID         string `json:"moduleId"`
	Dependency       string `json:"dependency"`
	PathToDependency string `json:"pathToDependency"`
	Reason           string `json:"reason"`
}

// SuppressedMatch is a violation accepted by the baseline. Reason is the
// suppression's reason.
type SuppressedMatch struct {
	ModuleID         string `json:"moduleId"`
	Dependency       string `json:"dependency"`
	PathToDependency string `json:"pathToDependency"`
	Reason           string `json:"reason"`
}

// ModuleReport groups the matches of one module.
type ModuleReport struct {
	Module     string            `json:"module"`
	Fatal      []FatalMatch      `json:"fatal"`
	Suppressed []SuppressedMatch `json:"suppressed"`
}

// IsEmpty reports whether the module has nothing to report.
func (m ModuleReport) IsEmpty() bool {
	return len(m.Fatal) == 0 && len(m.Suppressed) == 0
}

// Report is the whole-project result, sorted by module.
type Report struct {
	Modules []ModuleReport `json:"modules"`
}

// IsEmpty reports whether no module has matches.
func (r Report) IsEmpty() bool {
	return len(r.Modules) == 0
}

// FatalCount returns the number of unsuppressed violations.
func (r Report) FatalCount() int {
	n := 0
	for _, m := range r.Modules {
		n += len(m.Fatal)
	}
	return n
}

// SuppressedCount returns the number of suppressed violations.
func (r Report) SuppressedCount() int {
	n := 0
	for _, m := range r.Modules {
		n += len(m.Suppressed)
	}
	return n
}

// HasFatal reports whether any violation is unsuppressed.
func (r Report) HasFatal() bool {
	return r.FatalCount() > 0
}

// Module returns the report of module, if present.
func (r Report) Module(module string) (ModuleReport, bool) {
	i := sort.Search(len(r.Modules), func(i int) bool {
		return r.Modules[i].Module >= module
	})
	if i < len(r.Modules) && r.Modules[i].Module == module {
		return r.Modules[i], true
	}
	return ModuleReport{}, false
}

// Baseline converts the report into suppression entries. Suppressed matches keep
// their suppression reason; fatal matches use reason, or their own reason when
// reason is empty. Entries are sorted by module, then dependency.
func (r Report) Baseline(reason string) []suppression.Entry {
	var entries []suppression.Entry
	seen := make(map[[2]string]bool)
	add := func(e suppression.Entry) {
		k := [2]string{e.Module, e.Dependency}
		if seen[k] {
			return
		}
		seen[k] = true
		entries = append(entries, e)
	}

	for _, m := range r.Modules {
		for _, s := range m.Suppressed {
			add(suppression.Entry{Module: m.Module, Dependency: s.Dependency, Reason: s.Reason})
		}
		for _, f := range m.Fatal {
			entryReason := reason
			if entryReason == "" {
				entryReason = f.Reason
			}
			add(suppression.Entry{Module: m.Module, Dependency: f.Dependency, Reason: entryReason})
		}
	}
	suppression.SortEntries(entries)
	return entries
}

// UnusedSuppressions returns baseline entries that no match in r used.
func UnusedSuppressions(r Report, suppressions *suppression.Map) []suppression.Entry {
	used := make(map[[2]string]bool)
	for _, m := range r.Modules {
		for _, s := range m.Suppressed {
			used[[2]string{m.Module, s.Dependency}] = true
		}
	}

	var unused []suppression.Entry
	for _, e := range suppressions.Entries() {
		if !used[[2]string{e.Module, e.Dependency}] {
			unused = append(unused, e)
		}
	}
	return unused
}
