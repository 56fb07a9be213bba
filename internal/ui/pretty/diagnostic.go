package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats a single diagnostic for terminal output.
// The rule is shown by ID.
func (s *Styles) FormatDiagnostic(diag *thesislint.Diagnostic, showContext bool) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic with configurable rule identifier format.
func (s *Styles) FormatDiagnosticWithFormat(diag *thesislint.Diagnostic, showContext bool, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	ruleIdentifier := ruleFormat.Identifier(diag.RuleID, diag.RuleName)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		s.FormatLocation(diag.FilePath, diag.Line, diag.Column),
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+ruleIdentifier+")"),
	))

	if showContext && diag.Context != "" {
		builder.WriteString(s.FormatSourceContext(diag.Context, diag.Column))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatLocation renders path:line:col, dropping the parts that are zero.
func (s *Styles) FormatLocation(path string, line, column int) string {
	location := s.FilePath.Render(path)
	if line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", line))
		if column > 0 {
			location += s.Location.Render(fmt.Sprintf(":%d", column))
		}
	}
	return location
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker under
// the given byte column. Wide characters before the column are counted by
// their display width so the caret lines up under CJK text.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 && column-1 <= len(line) {
		padding := contextIndent + strings.Repeat(" ", lipgloss.Width(line[:column-1]))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%s)", Plural(issueCount, "issue", "issues")))
	}
	return header
}

// Plural formats n with the singular or plural word.
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
