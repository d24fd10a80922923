package restriction

import (
	"errors"
	"fmt"
	"strings"
)

// Rule is a named, reusable set of allow specs that can be applied to many restrictions.
type Rule struct {
	Name  string
	specs []ModuleAllowSpec
}

// NewRule returns a rule contributing specs to every restriction it is applied to.
func NewRule(name string, specs ...ModuleAllowSpec) Rule {
	return Rule{Name: name, specs: append([]ModuleAllowSpec(nil), specs...)}
}

// Specs returns the allow specs of the rule.
func (r Rule) Specs() []ModuleAllowSpec {
	return append([]ModuleAllowSpec(nil), r.specs...)
}

// Scope collects the allow list and reason of one restriction declaration.
type Scope struct {
	allowed   []ModuleAllowSpec
	reason    string
	reasonSet bool
}

// Reason sets the reason reported for violations.
func (s *Scope) Reason(reason string) {
	s.reason = reason
	s.reasonSet = true
}

// Allow permits the given module paths or coordinates exactly.
func (s *Scope) Allow(ids ...string) {
	for _, id := range ids {
		s.allowed = append(s.allowed, Exact(id))
	}
}

// AllowPrefix permits identifiers starting with any of the prefixes.
func (s *Scope) AllowPrefix(prefixes ...string) {
	for _, p := range prefixes {
		s.allowed = append(s.allowed, Prefix(p))
	}
}

// AllowGlob permits identifiers matching any of the glob patterns.
func (s *Scope) AllowGlob(patterns ...string) {
	for _, p := range patterns {
		s.allowed = append(s.allowed, Glob(p))
	}
}

// AllowSpec permits identifiers matching spec.
func (s *Scope) AllowSpec(specs ...ModuleAllowSpec) {
	s.allowed = append(s.allowed, specs...)
}

// ApplyRule adds every allow spec of rule.
func (s *Scope) ApplyRule(rule Rule) {
	s.allowed = append(s.allowed, rule.specs...)
}

type declaration struct {
	target string
	scope  Scope
}

// Builder accumulates restriction declarations and validates them into a Spec.
// Declaring the same target twice appends to its allow list; the last reason set wins.
type Builder struct {
	modules      []declaration
	dependencies []declaration
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// RestrictModule declares which dependencies module may have.
func (b *Builder) RestrictModule(module string, configure func(*Scope)) *Builder {
	b.modules = append(b.modules, newDeclaration(module, configure))
	return b
}

// RestrictDependency declares which modules may depend on dependency.
func (b *Builder) RestrictDependency(dependency string, configure func(*Scope)) *Builder {
	b.dependencies = append(b.dependencies, newDeclaration(dependency, configure))
	return b
}

func newDeclaration(target string, configure func(*Scope)) declaration {
	d := declaration{target: target}
	if configure != nil {
		configure(&d.scope)
	}
	return d
}

// Build validates all declarations. Every invalid declaration is reported.
func (b *Builder) Build() (*Spec, error) {
	spec := Empty()
	var errs []error

	for _, d := range b.modules {
		allowed, reason, err := resolve(d, "module")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		existing, ok := spec.modules[d.target]
		if !ok {
			existing = ModuleRestriction{Module: d.target, Reason: UnspecifiedReason}
		}
		existing.Allowed = append(existing.Allowed, allowed...)
		if d.scope.reasonSet {
			existing.Reason = reason
		}
		spec.modules[d.target] = existing
	}

	for _, d := range b.dependencies {
		allowed, reason, err := resolve(d, "dependency")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		existing, ok := spec.dependencies[d.target]
		if !ok {
			existing = DependencyRestriction{Dependency: d.target, Reason: UnspecifiedReason}
		}
		existing.AllowedConsumers = append(existing.AllowedConsumers, allowed...)
		if d.scope.reasonSet {
			existing.Reason = reason
		}
		spec.dependencies[d.target] = existing
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return spec, nil
}

func resolve(d declaration, kind string) ([]ModuleAllowSpec, string, error) {
	if strings.TrimSpace(d.target) == "" {
		return nil, "", fmt.Errorf("%s restriction: %w", kind, ErrEmptyModule)
	}

	allowed := make([]ModuleAllowSpec, 0, len(d.scope.allowed))
	for _, spec := range d.scope.allowed {
		compiled, err := spec.compile()
		if err != nil {
			return nil, "", fmt.Errorf("%s restriction %s: %w", kind, d.target, err)
		}
		allowed = append(allowed, compiled)
	}

	reason := d.scope.reason
	if d.scope.reasonSet && strings.TrimSpace(reason) == "" {
		reason = UnspecifiedReason
	}
	return allowed, reason, nil
}
