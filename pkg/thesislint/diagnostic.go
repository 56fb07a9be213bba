package thesislint

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/thesismd/pkg/config"
)

// contextWidth is the number of runes of source kept in Diagnostic.Context.
const contextWidth = 60

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic for the given rule and line.
func NewDiagnostic(ruleID string, line int, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:  ruleID,
			Line:    line,
			Message: message,
		},
	}
}

// WithColumn sets the 1-based column.
func (b *DiagnosticBuilder) WithColumn(col int) *DiagnosticBuilder {
	b.diag.Column = col
	return b
}

// WithSeverity overrides the rule's severity for this diagnostic only.
func (b *DiagnosticBuilder) WithSeverity(sev config.Severity) *DiagnosticBuilder {
	b.diag.Severity = sev
	return b
}

// WithSuggestion adds a fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithContext records the offending source text.
func (b *DiagnosticBuilder) WithContext(src string) *DiagnosticBuilder {
	b.diag.Context = Shorten(strings.TrimSpace(src), contextWidth)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}

// Shorten truncates s to at most width runes, marking the cut with "...".
func Shorten(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width]) + "..."
}
