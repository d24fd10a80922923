package checker

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/LegacyCodeHQ/modguard/depgraph"
	"github.com/LegacyCodeHQ/modguard/internal/mcplogdlog"
	"github.com/LegacyCodeHQ/modguard/restriction"
	"golang.org/x/sync/errgroup"
)

// GraphSupplier returns one graph per resolution scope for a module, holding
// that module's direct edges.
type GraphSupplier interface {
	DependencyGraphs(module string) ([]*depgraph.DependencyGraph, error)
}

// GraphSupplierFunc adapts a function to GraphSupplier.
type GraphSupplierFunc func(module string) ([]*depgraph.DependencyGraph, error)

// DependencyGraphs calls f(module).
func (f GraphSupplierFunc) DependencyGraphs(module string) ([]*depgraph.DependencyGraph, error) {
	return f(module)
}

// Options tunes CheckAll.
type Options struct {
	// Workers bounds concurrent module checks. Zero means GOMAXPROCS.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ModuleResult holds the violations found for one module.
type ModuleResult struct {
	Module  string
	Matches []Match
}

// CheckAll checks every module against spec. All graphs are fetched and merged
// before checking starts; modules are then checked concurrently against the
// shared, read-only merged graph. Results are returned in module order.
func CheckAll(
	ctx context.Context,
	supplier GraphSupplier,
	modules []string,
	spec *restriction.Spec,
	opts Options,
) ([]ModuleResult, error) {
	modules = uniqueSorted(modules)
	if spec.IsEmpty() || len(modules) == 0 {
		return nil, nil
	}

	perModule := make([][]*depgraph.DependencyGraph, len(modules))
	var all []*depgraph.DependencyGraph
	for i, module := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		graphs, err := supplier.DependencyGraphs(module)
		if err != nil {
			return nil, fmt.Errorf("failed to load dependency graphs for %s: %w", module, err)
		}
		perModule[i] = graphs
		all = append(all, graphs...)
	}
	global := depgraph.Merge(all...)

	mcplogdlog.Debug("checking modules", map[string]any{
		"modules": len(modules),
		"nodes":   len(global.Nodes()),
		"edges":   len(global.Edges()),
		"workers": opts.workers(),
	})

	results := make([]ModuleResult, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, module := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ModuleResult{Module: module}
			if !spec.IsRestricted(module) {
				return nil
			}
			results[i].Matches = findRestrictions(module, perModule[i], global, spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Matches flattens results in module order.
func Matches(results []ModuleResult) []Match {
	var matches []Match
	for _, r := range results {
		matches = append(matches, r.Matches...)
	}
	return matches
}

func uniqueSorted(modules []string) []string {
	seen := make(map[string]bool, len(modules))
	result := make([]string, 0, len(modules))
	for _, m := range modules {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	sort.Strings(result)
	return result
}
