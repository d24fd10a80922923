package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/modguard/depgraph"
)

// ErrInvalidGraphFile indicates a dependency dump that cannot be decoded.
var ErrInvalidGraphFile = errors.New("invalid graph file")

// GraphFile is a dependency dump produced by a build-graph resolver: for every
// module, the direct dependencies observed per resolution scope.
type GraphFile struct {
	Modules []ModuleDump `json:"modules"`
}

// ModuleDump lists the scopes of one module.
type ModuleDump struct {
	Module string      `json:"module"`
	Scopes []ScopeDump `json:"scopes"`
}

// ScopeDump lists what a module declares and what it only inherits in one scope.
type ScopeDump struct {
	Scope        string   `json:"scope"`
	Dependencies []string `json:"dependencies"`
	Inherited    []string `json:"inherited,omitempty"`
}

// ParseGraphFile decodes a dependency dump.
func ParseGraphFile(data []byte) (*GraphFile, error) {
	var f GraphFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraphFile, err)
	}
	for i, m := range f.Modules {
		if m.Module == "" {
			return nil, fmt.Errorf("%w: modules[%d] has no module", ErrInvalidGraphFile, i)
		}
	}
	return &f, nil
}

// NewGraphFile dumps graphs keyed by module.
func NewGraphFile(modules []string, graphs map[string][]*depgraph.DependencyGraph) *GraphFile {
	f := &GraphFile{}
	for _, module := range modules {
		dump := ModuleDump{Module: module}
		for _, g := range graphs[module] {
			scope := ScopeDump{Scope: string(g.Scope()), Dependencies: []string{}}
			for _, e := range g.OutgoingEdges(module) {
				if e.Kind == depgraph.EdgeInherited {
					scope.Inherited = append(scope.Inherited, e.To)
				} else {
					scope.Dependencies = append(scope.Dependencies, e.To)
				}
			}
			dump.Scopes = append(dump.Scopes, scope)
		}
		f.Modules = append(f.Modules, dump)
	}
	return f
}

// Marshal encodes the dump as indented JSON.
func (f *GraphFile) Marshal() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// ModuleIDs returns the dumped modules in file order, without repeats.
func (f *GraphFile) ModuleIDs() []string {
	seen := make(map[string]bool, len(f.Modules))
	var ids []string
	for _, m := range f.Modules {
		if seen[m.Module] {
			continue
		}
		seen[m.Module] = true
		ids = append(ids, m.Module)
	}
	return ids
}

// DependencyGraphs returns one graph per scope dumped for module. Repeated
// module entries contribute additional scopes. Unknown modules have no graphs.
func (f *GraphFile) DependencyGraphs(module string) ([]*depgraph.DependencyGraph, error) {
	return f.scopeGraphs(module), nil
}

// Graph merges the graphs of every dumped module.
func (f *GraphFile) Graph() *depgraph.DependencyGraph {
	var all []*depgraph.DependencyGraph
	for _, module := range f.ModuleIDs() {
		all = append(all, f.scopeGraphs(module)...)
	}
	return depgraph.Merge(all...)
}

func (f *GraphFile) scopeGraphs(module string) []*depgraph.DependencyGraph {
	var graphs []*depgraph.DependencyGraph
	for _, m := range f.Modules {
		if m.Module != module {
			continue
		}
		for _, s := range m.Scopes {
			g := depgraph.New(depgraph.Scope(s.Scope))
			g.AddNode(module)
			for _, dep := range s.Dependencies {
				g.AddDependency(module, dep)
			}
			for _, dep := range s.Inherited {
				g.AddInheritedDependency(module, dep)
			}
			graphs = append(graphs, g)
		}
	}
	return graphs
}
