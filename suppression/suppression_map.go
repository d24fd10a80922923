package suppression

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateSuppression indicates two baseline entries for the same module and dependency.
var ErrDuplicateSuppression = errors.New("duplicate suppression")

// Entry pre-approves module depending on dependency.
type Entry struct {
	Module     string `json:"module" yaml:"module"`
	Dependency string `json:"dependency" yaml:"dependency"`
	Reason     string `json:"reason" yaml:"reason"`
}

type key struct {
	module     string
	dependency string
}

// Map answers exact (module, dependency) suppression lookups. It is read-only once built.
type Map struct {
	entries map[key]Entry
}

// New indexes entries. A repeated (module, dependency) pair is rejected with
// ErrDuplicateSuppression naming the first repeated pair in input order.
func New(entries []Entry) (*Map, error) {
	m := &Map{entries: make(map[key]Entry, len(entries))}
	for i, e := range entries {
		k := key{module: e.Module, dependency: e.Dependency}
		if _, ok := m.entries[k]; ok {
			return nil, fmt.Errorf("%w: entry %d repeats module %s dependency %s",
				ErrDuplicateSuppression, i, e.Module, e.Dependency)
		}
		m.entries[k] = e
	}
	return m, nil
}

// Empty returns a map that suppresses nothing.
func Empty() *Map {
	return &Map{entries: map[key]Entry{}}
}

// Get returns the suppression for module depending on dependency.
func (m *Map) Get(module, dependency string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[key{module: module, dependency: dependency}]
	return e, ok
}

// Len returns the number of suppressions.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns all suppressions sorted by module, then dependency.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	result := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	SortEntries(result)
	return result
}

// SortEntries orders entries by module, then dependency.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Module != entries[j].Module {
			return entries[i].Module < entries[j].Module
		}
		return entries[i].Dependency < entries[j].Dependency
	})
}
