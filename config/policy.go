package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LegacyCodeHQ/modguard/restriction"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownRule indicates a restriction referencing a rule that is not declared.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrDuplicateRule indicates two rules sharing a name.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrInvalidPolicy indicates a structurally invalid policy document.
	ErrInvalidPolicy = errors.New("invalid policy")
)

// PolicyDocument is the YAML form of a restriction specification:
//
//	rules:
//	  - name: core
//	    allow: [":core", {prefix: ":core:"}]
//	modules:
//	  - module: ":feature:login"
//	    reason: Features only depend on core
//	    rules: [core]
//	dependencies:
//	  - dependency: ":legacy"
//	    allow: [":app"]
type PolicyDocument struct {
	Rules        []RuleDocument        `yaml:"rules,omitempty"`
	Modules      []RestrictionDocument `yaml:"modules,omitempty"`
	Dependencies []RestrictionDocument `yaml:"dependencies,omitempty"`
}

// RuleDocument declares a reusable allow list.
type RuleDocument struct {
	Name  string       `yaml:"name"`
	Allow []AllowEntry `yaml:"allow,omitempty"`
}

// RestrictionDocument declares one module or dependency restriction.
type RestrictionDocument struct {
	Module     string       `yaml:"module,omitempty"`
	Dependency string       `yaml:"dependency,omitempty"`
	Reason     *string      `yaml:"reason,omitempty"`
	Allow      []AllowEntry `yaml:"allow,omitempty"`
	Rules      []string     `yaml:"rules,omitempty"`
}

// AllowEntry is either a plain string (exact match) or a mapping with exactly
// one of module, prefix or glob, plus an optional reason.
type AllowEntry struct {
	Module string `yaml:"module,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Glob   string `yaml:"glob,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (a *AllowEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&a.Module)
	}
	type plain AllowEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = AllowEntry(p)
	return nil
}

func (a AllowEntry) spec() (restriction.ModuleAllowSpec, error) {
	var specs []restriction.ModuleAllowSpec
	if a.Module != "" {
		specs = append(specs, restriction.Exact(a.Module))
	}
	if a.Prefix != "" {
		specs = append(specs, restriction.Prefix(a.Prefix))
	}
	if a.Glob != "" {
		specs = append(specs, restriction.Glob(a.Glob))
	}
	if len(specs) != 1 {
		return restriction.ModuleAllowSpec{}, fmt.Errorf("%w: allow entry needs exactly one of module, prefix or glob",
			restriction.ErrInvalidPattern)
	}
	return specs[0].WithReason(a.Reason), nil
}

// ParsePolicy decodes a policy document. Unknown fields are rejected.
func ParsePolicy(data []byte) (PolicyDocument, error) {
	var doc PolicyDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return PolicyDocument{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return doc, nil
}

// LoadPolicy parses and validates a policy document into a restriction.Spec.
func LoadPolicy(data []byte) (*restriction.Spec, error) {
	doc, err := ParsePolicy(data)
	if err != nil {
		return nil, err
	}
	return doc.Spec()
}

// Spec validates the document and builds the restriction specification.
func (d PolicyDocument) Spec() (*restriction.Spec, error) {
	rules, err := d.rules()
	if err != nil {
		return nil, err
	}

	b := restriction.NewBuilder()
	var errs []error
	for i, r := range d.Modules {
		if r.Dependency != "" {
			errs = append(errs, fmt.Errorf("%w: modules[%d] sets dependency %q", ErrInvalidPolicy, i, r.Dependency))
			continue
		}
		configure, err := r.scope(rules)
		if err != nil {
			errs = append(errs, fmt.Errorf("modules[%d] %s: %w", i, r.Module, err))
			continue
		}
		b.RestrictModule(r.Module, configure)
	}
	for i, r := range d.Dependencies {
		if r.Module != "" {
			errs = append(errs, fmt.Errorf("%w: dependencies[%d] sets module %q", ErrInvalidPolicy, i, r.Module))
			continue
		}
		configure, err := r.scope(rules)
		if err != nil {
			errs = append(errs, fmt.Errorf("dependencies[%d] %s: %w", i, r.Dependency, err))
			continue
		}
		b.RestrictDependency(r.Dependency, configure)
	}

	spec, err := b.Build()
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return spec, nil
}

func (d PolicyDocument) rules() (map[string]restriction.Rule, error) {
	rules := make(map[string]restriction.Rule, len(d.Rules))
	for i, r := range d.Rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: rules[%d] has no name", ErrInvalidPolicy, i)
		}
		if _, ok := rules[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, name)
		}
		specs := make([]restriction.ModuleAllowSpec, 0, len(r.Allow))
		for _, entry := range r.Allow {
			spec, err := entry.spec()
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}
			specs = append(specs, spec)
		}
		rules[name] = restriction.NewRule(name, specs...)
	}
	return rules, nil
}

func (r RestrictionDocument) scope(rules map[string]restriction.Rule) (func(*restriction.Scope), error) {
	specs := make([]restriction.ModuleAllowSpec, 0, len(r.Allow))
	for _, entry := range r.Allow {
		spec, err := entry.spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	applied := make([]restriction.Rule, 0, len(r.Rules))
	for _, name := range r.Rules {
		rule, ok := rules[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		applied = append(applied, rule)
	}

	return func(s *restriction.Scope) {
		if r.Reason != nil {
			s.Reason(*r.Reason)
		}
		s.AllowSpec(specs...)
		for _, rule := range applied {
			s.ApplyRule(rule)
		}
	}, nil
}
