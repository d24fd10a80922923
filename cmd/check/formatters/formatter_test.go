package formatters_test

import (
	"testing"

	"github.com/LegacyCodeHQ/modguard/cmd/check/formatters"
	"github.com/LegacyCodeHQ/modguard/report"
	"github.com/LegacyCodeHQ/modguard/suppression"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() report.Report {
	return report.Report{Modules: []report.ModuleReport{
		{
			Module: ":app",
			Fatal: []report.FatalMatch{
				{ModuleID: ":app", Dependency: ":data", PathToDependency: ":data", Reason: "layering"},
				{ModuleID: ":app", Dependency: "okio:okio", PathToDependency: ":app -> :core -> okio:okio", Reason: "layering"},
			},
			Suppressed: []report.SuppressedMatch{
				{ModuleID: ":app", Dependency: ":util", PathToDependency: ":util", Reason: "legacy, ticket #42"},
			},
		},
		{
			Module: ":feature:login",
			Fatal: []report.FatalMatch{
				{ModuleID: ":feature:login", Dependency: ":feature:home", PathToDependency: ":feature:home", Reason: "features are independent"},
			},
			Suppressed: []report.SuppressedMatch{},
		},
	}}
}

func sampleOptions() formatters.FormatOptions {
	return formatters.FormatOptions{
		UnusedSuppressions: []suppression.Entry{{Module: ":domain", Dependency: ":data", Reason: "old"}},
	}
}

func TestTextFormatter_Format(t *testing.T) {
	formatter := &formatters.TextFormatter{}

	output, err := formatter.Format(sampleReport(), sampleOptions())

	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestTextFormatter_EmptyReport(t *testing.T) {
	formatter := &formatters.TextFormatter{}

	output, err := formatter.Format(report.Report{}, formatters.FormatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "No restricted dependencies found.\n", output)
}

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &formatters.JSONFormatter{}

	output, err := formatter.Format(sampleReport(), sampleOptions())

	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestJSONFormatter_EmptyReportHasEmptyArrays(t *testing.T) {
	formatter := &formatters.JSONFormatter{}

	output, err := formatter.Format(report.Report{}, formatters.FormatOptions{})

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"report": {"modules": []},
		"summary": {"fatal": 0, "suppressed": 0},
		"unusedSuppressions": []
	}`, output)
}

func TestParseJSON_ReadsBackReport(t *testing.T) {
	formatter := &formatters.JSONFormatter{}
	output, err := formatter.Format(sampleReport(), sampleOptions())
	require.NoError(t, err)

	parsed, err := formatters.ParseJSON([]byte(output))

	require.NoError(t, err)
	assert.Equal(t, sampleReport(), parsed)
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		f, err := formatters.NewFormatter(format)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := formatters.NewFormatter("dot")
	assert.EqualError(t, err, "unknown format: dot (valid options: text, json)")
}
