package formatters

import (
	"bytes"
	"encoding/json"

	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/LegacyCodeHQ/modguard/suppression"
)

// JSONFormatter formats reports as JSON. The "report" object is what the
// aggregate command reads back.
type JSONFormatter struct{}

type jsonOutput struct {
	Report             report.Report       `json:"report"`
	Summary            jsonSummary         `json:"summary"`
	UnusedSuppressions []suppression.Entry `json:"unusedSuppressions"`
}

type jsonSummary struct {
	Fatal      int `json:"fatal"`
	Suppressed int `json:"suppressed"`
}

// Format converts the report to indented JSON.
func (f *JSONFormatter) Format(r report.Report, opts FormatOptions) (string, error) {
	if r.Modules == nil {
		r.Modules = []report.ModuleReport{}
	}
	unused := opts.UnusedSuppressions
	if unused == nil {
		unused = []suppression.Entry{}
	}

	output := jsonOutput{
		Report: r,
		Summary: jsonSummary{
			Fatal:      r.FatalCount(),
			Suppressed: r.SuppressedCount(),
		},
		UnusedSuppressions: unused,
	}

	// Paths contain "->", which the default encoder would escape.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseJSON reads the report back from JSONFormatter output.
func ParseJSON(data []byte) (report.Report, error) {
	var output jsonOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return report.Report{}, err
	}
	return output.Report, nil
}
