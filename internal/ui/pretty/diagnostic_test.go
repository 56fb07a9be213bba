package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/thesismd/internal/ui/pretty"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

func TestFormatDiagnostic_Basic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	diag := &thesislint.Diagnostic{
		RuleID:   "TM006",
		RuleName: "table-caption",
		Message:  "Missing space after \"Table:\"",
		Severity: config.SeverityError,
		FilePath: "thesis.md",
		Line:     10,
		Column:   1,
	}

	result := styles.FormatDiagnostic(diag, false)

	assert.Contains(t, result, "thesis.md:10:1")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, "Missing space after \"Table:\"")
	assert.Contains(t, result, "(TM006)")
}

func TestFormatDiagnosticWithFormat(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &thesislint.Diagnostic{
		RuleID:   "TM010",
		RuleName: "crossref-resolution",
		Message:  "No figure named \"x\"",
		Severity: config.SeverityWarning,
		FilePath: "a.md",
		Line:     3,
	}

	tests := []struct {
		format config.RuleFormat
		want   string
	}{
		{config.RuleFormatID, "(TM010)"},
		{config.RuleFormatName, "(crossref-resolution)"},
		{config.RuleFormatCombined, "(TM010/crossref-resolution)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, styles.FormatDiagnosticWithFormat(diag, false, tt.format), tt.want)
		})
	}
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	diag := &thesislint.Diagnostic{
		RuleID:     "TM013",
		Message:    "Fullwidth colon after \"Table\"",
		Severity:   config.SeverityWarning,
		FilePath:   "thesis.md",
		Line:       5,
		Column:     3,
		Context:    "  Table：结果",
		Suggestion: "Write \"Table: \" with an ASCII colon and a space",
	}

	result := styles.FormatDiagnostic(diag, true)
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "  Table：结果")
	assert.Equal(t, "          ^", lines[2])
	assert.Contains(t, lines[3], "Suggestion: Write \"Table: \"")
}

func TestFormatDiagnostic_ContextHidden(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &thesislint.Diagnostic{
		RuleID:   "TM004",
		Message:  "Image has no caption text",
		Severity: config.SeverityError,
		FilePath: "a.md",
		Line:     2,
		Context:  "![](x.png)",
	}

	result := styles.FormatDiagnostic(diag, false)
	assert.NotContains(t, result, "![](x.png)")
}

func TestFormatLocation(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.md", styles.FormatLocation("a.md", 0, 4))
	assert.Equal(t, "a.md:7", styles.FormatLocation("a.md", 7, 0))
	assert.Equal(t, "a.md:7:2", styles.FormatLocation("a.md", 7, 2))
}

func TestFormatSourceContext_WideCharacters(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	line := "见图{{fig:x}}"
	col := strings.Index(line, "{{") + 1

	result := styles.FormatSourceContext(line, col)
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Len(t, lines, 2)
	// Two CJK characters take four terminal cells.
	assert.Equal(t, "        "+"    "+"^", lines[1])
}

func TestFormatSourceContext_NoColumn(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	result := styles.FormatSourceContext("text", 0)

	assert.Equal(t, "        text\n", result)
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		severity config.Severity
		want     string
	}{
		{config.SeverityError, "error"},
		{config.SeverityWarning, "warning"},
		{config.SeverityInfo, "info"},
		{config.Severity("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSeverity(tt.severity))
		})
	}
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "thesis.md", styles.FormatFileHeader("thesis.md", 0))
	assert.Equal(t, "thesis.md (1 issue)", styles.FormatFileHeader("thesis.md", 1))
	assert.Equal(t, "thesis.md (3 issues)", styles.FormatFileHeader("thesis.md", 3))
}
