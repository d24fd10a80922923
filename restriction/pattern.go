package restriction

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// PatternKind selects how a ModuleAllowSpec pattern is compared to a node identifier.
type PatternKind int

const (
	// PatternExact matches the identifier literally.
	PatternExact PatternKind = iota
	// PatternPrefix matches any identifier starting with the pattern.
	PatternPrefix
	// PatternGlob matches with '*' inside one ':'-separated segment and '**' across segments.
	PatternGlob
)

func (k PatternKind) String() string {
	switch k {
	case PatternExact:
		return "exact"
	case PatternPrefix:
		return "prefix"
	case PatternGlob:
		return "glob"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// segmentSeparator splits module paths (":feature:login") and coordinates ("group:artifact").
const segmentSeparator = ':'

// ModuleAllowSpec allows a dependency matching Pattern.
type ModuleAllowSpec struct {
	Pattern string
	Reason  string
	Kind    PatternKind

	matcher glob.Glob
}

// Exact returns an allow spec matching id literally.
func Exact(id string) ModuleAllowSpec {
	return ModuleAllowSpec{Pattern: id, Kind: PatternExact}
}

// Prefix returns an allow spec matching identifiers that start with prefix.
func Prefix(prefix string) ModuleAllowSpec {
	return ModuleAllowSpec{Pattern: prefix, Kind: PatternPrefix}
}

// Glob returns an allow spec matching identifiers against a glob pattern.
func Glob(pattern string) ModuleAllowSpec {
	return ModuleAllowSpec{Pattern: pattern, Kind: PatternGlob}
}

// WithReason returns a copy of s carrying reason.
func (s ModuleAllowSpec) WithReason(reason string) ModuleAllowSpec {
	s.Reason = reason
	return s
}

// compile validates the pattern and prepares its matcher.
func (s ModuleAllowSpec) compile() (ModuleAllowSpec, error) {
	if strings.TrimSpace(s.Pattern) == "" {
		return s, fmt.Errorf("%w: pattern cannot be blank", ErrInvalidPattern)
	}
	if s.Pattern != strings.TrimSpace(s.Pattern) {
		return s, fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidPattern, s.Pattern)
	}

	switch s.Kind {
	case PatternExact, PatternPrefix:
		return s, nil
	case PatternGlob:
		g, err := glob.Compile(s.Pattern, segmentSeparator)
		if err != nil {
			return s, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, s.Pattern, err)
		}
		s.matcher = g
		return s, nil
	default:
		return s, fmt.Errorf("%w: %q has unknown kind %s", ErrInvalidPattern, s.Pattern, s.Kind)
	}
}

// Matches reports whether id is allowed by s.
func (s ModuleAllowSpec) Matches(id string) bool {
	switch s.Kind {
	case PatternExact:
		return id == s.Pattern
	case PatternPrefix:
		return strings.HasPrefix(id, s.Pattern)
	case PatternGlob:
		if s.matcher == nil {
			compiled, err := s.compile()
			if err != nil {
				return false
			}
			s = compiled
		}
		return s.matcher.Match(id)
	default:
		return false
	}
}
