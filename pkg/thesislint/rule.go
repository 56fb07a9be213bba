// Package thesislint provides the rule engine, diagnostics and registry used
// to check thesis Markdown sources before they are handed to pandoc.
package thesislint

import "github.com/yaklabco/thesismd/pkg/config"

// Diagnostic represents a single lint issue found in a document.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "table-caption").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the document containing the issue.
	FilePath string

	// Line is the 1-based line number, or 0 for document-level issues.
	Line int

	// Column is the 1-based column, or 0 when unknown.
	Column int

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string

	// Context is the offending source text, shortened for display.
	Context string
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "TM006").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule.
	Tags() []string

	// Apply executes the rule against the given context and returns diagnostics.
	//
	// Rules must:
	//   - Return diagnostics for each violation found.
	//   - Respect context cancellation.
	//   - Return error only for internal failures, not violations.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
