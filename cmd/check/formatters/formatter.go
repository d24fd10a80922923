package formatters

import (
	"fmt"

	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/LegacyCodeHQ/modguard/suppression"
)

// FormatOptions contains optional parameters for formatting reports.
type FormatOptions struct {
	// UnusedSuppressions are baseline entries no match used
	UnusedSuppressions []suppression.Entry
}

// Formatter is the interface that all report formatters must implement.
type Formatter interface {
	// Format converts a report to a formatted string representation.
	Format(r report.Report, opts FormatOptions) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
// Supported formats: "text", "json"
func NewFormatter(format string) (Formatter, error) {
	switch OutputFormat(format) {
	case OutputFormatText:
		return &TextFormatter{}, nil
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s, %s)", format, OutputFormatText, OutputFormatJSON)
	}
}
