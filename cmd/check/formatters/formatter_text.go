package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/modguard/report"
)

// TextFormatter formats reports for terminals and CI logs.
type TextFormatter struct{}

// Format lists every module with its fatal matches first, then suppressed ones.
func (f *TextFormatter) Format(r report.Report, opts FormatOptions) (string, error) {
	var sb strings.Builder

	for _, m := range r.Modules {
		sb.WriteString(m.Module)
		sb.WriteString("\n")
		for _, match := range m.Fatal {
			writeMatch(&sb, "fatal", match.Dependency, match.PathToDependency, match.Reason)
		}
		for _, match := range m.Suppressed {
			writeMatch(&sb, "suppressed", match.Dependency, match.PathToDependency, match.Reason)
		}
		sb.WriteString("\n")
	}

	for _, e := range opts.UnusedSuppressions {
		fmt.Fprintf(&sb, "unused suppression: %s -> %s\n", e.Module, e.Dependency)
	}
	if len(opts.UnusedSuppressions) > 0 {
		sb.WriteString("\n")
	}

	if r.IsEmpty() {
		sb.WriteString("No restricted dependencies found.\n")
	} else {
		fmt.Fprintf(&sb, "%d fatal, %d suppressed in %d module(s)\n", r.FatalCount(), r.SuppressedCount(), len(r.Modules))
	}
	return sb.String(), nil
}

func writeMatch(sb *strings.Builder, label, dependency, path, reason string) {
	fmt.Fprintf(sb, "  %s: %s\n", label, dependency)
	if path != dependency {
		fmt.Fprintf(sb, "    path: %s\n", path)
	}
	fmt.Fprintf(sb, "    reason: %s\n", reason)
}
