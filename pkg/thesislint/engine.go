package thesislint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/thesismd/pkg/config"
)

// ErrLintIssuesFound is returned by callers that turn diagnostics into a
// failing exit status.
var ErrLintIssuesFound = errors.New("lint issues found")

// FileResult contains the results of linting a single document.
type FileResult struct {
	Path string

	// Diagnostics are sorted by line, then rule ID.
	Diagnostics []Diagnostic

	// RuleErrors contains any errors from rule execution, keyed by rule ID.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// Count returns the number of diagnostics with the given severity.
func (fr *FileResult) Count(sev config.Severity) int {
	n := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Engine coordinates parsing and rule execution for linting.
type Engine struct {
	Registry *Registry
}

// NewEngine creates a new Engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// LintFile parses and lints a single document.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	doc, err := ParseDocument(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return e.LintDocument(ctx, doc, cfg)
}

// LintDocument runs the enabled rules over an already parsed document.
func (e *Engine) LintDocument(ctx context.Context, doc *Document, cfg *config.Config) (*FileResult, error) {
	result := &FileResult{
		Path:       doc.Path,
		RuleErrors: make(map[string]error),
	}

	for _, rr := range ResolveRules(e.Registry, cfg) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		diags, err := rr.Rule.Apply(NewRuleContext(ctx, doc, cfg, rr.Config))
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i := range diags {
			if diags[i].Severity == "" || rr.SeverityConfigured {
				diags[i].Severity = rr.Severity
			}
			if diags[i].FilePath == "" {
				diags[i].FilePath = doc.Path
			}
			if diags[i].RuleName == "" {
				diags[i].RuleName = rr.Rule.Name()
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.RuleID, b.RuleID))
	})

	return result, nil
}
