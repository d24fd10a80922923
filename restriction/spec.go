package restriction

import "sort"

// UnspecifiedReason is reported for violations of restrictions that never set a reason.
const UnspecifiedReason = "Unspecified"

// ModuleRestriction limits what a module may depend on.
type ModuleRestriction struct {
	Module  string
	Allowed []ModuleAllowSpec
	Reason  string
}

// Allows reports whether the module may depend on dependency.
// A module may always reference itself.
func (r ModuleRestriction) Allows(dependency string) bool {
	if dependency == r.Module {
		return true
	}
	return anyMatches(r.Allowed, dependency)
}

// DependencyRestriction limits which modules may depend on a dependency.
type DependencyRestriction struct {
	Dependency       string
	AllowedConsumers []ModuleAllowSpec
	Reason           string
}

// AllowsConsumer reports whether module may depend on the restricted dependency.
func (r DependencyRestriction) AllowsConsumer(module string) bool {
	if module == r.Dependency {
		return true
	}
	return anyMatches(r.AllowedConsumers, module)
}

func anyMatches(specs []ModuleAllowSpec, id string) bool {
	for _, spec := range specs {
		if spec.Matches(id) {
			return true
		}
	}
	return false
}

// Spec is the immutable set of restrictions for one build invocation.
// Modules without a restriction are unrestricted.
type Spec struct {
	modules      map[string]ModuleRestriction
	dependencies map[string]DependencyRestriction
}

// Empty returns a spec without restrictions.
func Empty() *Spec {
	return &Spec{
		modules:      map[string]ModuleRestriction{},
		dependencies: map[string]DependencyRestriction{},
	}
}

// IsEmpty reports whether the spec restricts nothing.
func (s *Spec) IsEmpty() bool {
	return s == nil || (len(s.modules) == 0 && len(s.dependencies) == 0)
}

// ModuleRestriction returns the restriction declared for module, if any.
func (s *Spec) ModuleRestriction(module string) (ModuleRestriction, bool) {
	if s == nil {
		return ModuleRestriction{}, false
	}
	r, ok := s.modules[module]
	if !ok {
		return ModuleRestriction{}, false
	}
	r.Allowed = append([]ModuleAllowSpec(nil), r.Allowed...)
	return r, true
}

// DependencyRestriction returns the consumer restriction declared for dependency, if any.
func (s *Spec) DependencyRestriction(dependency string) (DependencyRestriction, bool) {
	if s == nil {
		return DependencyRestriction{}, false
	}
	r, ok := s.dependencies[dependency]
	if !ok {
		return DependencyRestriction{}, false
	}
	r.AllowedConsumers = append([]ModuleAllowSpec(nil), r.AllowedConsumers...)
	return r, true
}

// IsRestricted reports whether checking module can produce violations.
func (s *Spec) IsRestricted(module string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.modules[module]; ok {
		return true
	}
	return len(s.dependencies) > 0
}

// Modules returns the restricted module identifiers in sorted order.
func (s *Spec) Modules() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.modules)
}

// Dependencies returns the identifiers of dependencies with consumer restrictions, sorted.
func (s *Spec) Dependencies() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.dependencies)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
