package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/pkg/analysis"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/reporter"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.ErrorContains(t, err, "valid formats: text, json, summary")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, reporter.FormatText.IsValid())
	assert.True(t, reporter.FormatJSON.IsValid())
	assert.True(t, reporter.FormatSummary.IsValid())
	assert.False(t, reporter.Format("diff").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format}

			rep, err := reporter.New(opts)
			xrep, xerr := reporter.NewXref(opts)
			if tt.wantErr {
				require.Error(t, err)
				require.Error(t, xerr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, xerr)
			assert.NotNil(t, rep)
			assert.NotNil(t, xrep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestTextReporter_WithDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatName,
		WorkingDir:  "/thesis",
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	output := buf.String()
	assert.Contains(t, output, "chapters/intro.md (2 issues)")
	assert.Contains(t, output, "chapters/intro.md:4:1  error  Missing space after \"Table:\"  (table-caption)")
	assert.Contains(t, output, "Table:Results")
	assert.Contains(t, output, "chapters/methods.md:12  warning  No figure named \"Flow\"  (crossref-resolution)")
	assert.Contains(t, output, "Suggestion: Define a figure labelled \"Flow\"")
	assert.Contains(t, output, "missing.md: error: file not found")
	assert.Contains(t, output, "3 issues (1 error, 2 warnings) in 2 files, 1 file could not be read")
}

func TestTextReporter_Flat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		RuleFormat: config.RuleFormatID,
		WorkingDir: "/thesis",
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	output := buf.String()
	assert.NotContains(t, output, "(2 issues)")
	assert.NotContains(t, output, "Table:Results", "context is off")
	assert.Contains(t, output, "(TM006)")
	assert.NotContains(t, output, "issues (", "summary is off")
}

func TestJSONReporter_Lint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:     &buf,
		Format:     reporter.FormatJSON,
		RuleFormat: config.RuleFormatCombined,
		WorkingDir: "/thesis",
	})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.Equal(t, analysis.ReportVersion, report.Version)
	assert.Equal(t, 3, report.Totals.Issues)
	assert.Equal(t, 1, report.Totals.FilesFailed)
	require.Len(t, report.Diagnostics, 3)
	assert.Equal(t, "chapters/intro.md", report.Diagnostics[0].FilePath)
	assert.Equal(t, "TM006/table-caption", report.Diagnostics[0].Rule)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "missing.md", report.Failures[0].Path)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:     &buf,
		Format:     reporter.FormatSummary,
		Color:      "never",
		WorkingDir: "/thesis",
	})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	output := buf.String()
	assert.Contains(t, output, "Rules Summary")
	assert.Contains(t, output, "Files Summary")
	assert.Contains(t, output, "table-caption")
	assert.Contains(t, output, "chapters/methods.md")
	assert.Contains(t, output, "missing.md: error: file not found")
	assert.Contains(t, output, "Total: 3 issues (1 error, 2 warnings) in 2 files")
}

func TestSummaryRenderer_NoIssues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := reporter.NewSummaryRenderer(reporter.Options{Writer: &buf, Color: "never"})

	require.NoError(t, renderer.Render(context.Background(), &analysis.Report{}))
	assert.Equal(t, "No issues found\n", buf.String())
}

func TestSummaryRenderer_AlignsWideNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := reporter.NewSummaryRenderer(reporter.Options{Writer: &buf, Color: "never"})

	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: "第一章.md"}, {Path: "ch1.md"}},
		Totals: analysis.Totals{Issues: 1, Warnings: 1, FilesWithIssues: 1},
	}
	require.NoError(t, renderer.Render(context.Background(), report))

	var rows []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "第一章.md") || strings.HasPrefix(line, "ch1.md") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 2)
	assert.Equal(t, lipgloss.Width(rows[1]), lipgloss.Width(rows[0]))
}

func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/thesis/chapters/intro.md",
				Result: &thesislint.FileResult{
					Path: "/thesis/chapters/intro.md",
					Diagnostics: []thesislint.Diagnostic{
						{
							RuleID:   "TM006",
							RuleName: "table-caption",
							Message:  "Missing space after \"Table:\"",
							Severity: config.SeverityError,
							FilePath: "/thesis/chapters/intro.md",
							Line:     4,
							Column:   1,
							Context:  "Table:Results",
						},
						{
							RuleID:   "TM012",
							RuleName: "heading-spacing",
							Message:  "Missing blank line after heading",
							Severity: config.SeverityWarning,
							FilePath: "/thesis/chapters/intro.md",
							Line:     9,
						},
					},
				},
			},
			{
				Path: "/thesis/chapters/methods.md",
				Result: &thesislint.FileResult{
					Path: "/thesis/chapters/methods.md",
					Diagnostics: []thesislint.Diagnostic{
						{
							RuleID:     "TM010",
							RuleName:   "crossref-resolution",
							Message:    "No figure named \"Flow\"",
							Severity:   config.SeverityWarning,
							FilePath:   "/thesis/chapters/methods.md",
							Line:       12,
							Suggestion: "Define a figure labelled \"Flow\" or fix the placeholder",
						},
					},
				},
			},
			{Path: "/thesis/missing.md", Error: errors.New("file not found")},
		},
		Stats: runner.Stats{
			FilesDiscovered:  3,
			FilesProcessed:   2,
			FilesErrored:     1,
			FilesWithIssues:  2,
			DiagnosticsTotal: 3,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityError:   1,
				config.SeverityWarning: 2,
			},
		},
	}
}
