// Package analysis turns runner results into the aggregated views the
// reporters render.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

const (
	severityError   = string(config.SeverityError)
	severityWarning = string(config.SeverityWarning)
	severityInfo    = string(config.SeverityInfo)
)

// RelativePath converts path to one relative to workDir. If workDir is
// empty or the conversion fails, path is returned unchanged.
func RelativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) rule(id, name string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[id]; !ok {
		ctx.ruleMap[id] = &RuleAnalysis{RuleID: id, RuleName: name}
		ctx.ruleFiles[id] = make(map[string]bool)
	}
	return ctx.ruleMap[id]
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the diagnostics.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion}
	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		path := RelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil {
			report.Totals.FilesFailed++
			report.Failures = append(report.Failures, FileFailure{Path: path, Error: file.Error.Error()})
			continue
		}
		if file.Result == nil {
			continue
		}
		if file.Result.HasIssues() {
			report.Totals.FilesWithIssues++
		}

		fa := ctx.file(path)
		for _, diag := range file.Result.Diagnostics {
			severity := string(cmp.Or(diag.Severity, config.SeverityWarning))

			report.Totals.Issues++
			switch severity {
			case severityError:
				report.Totals.Errors++
			case severityWarning:
				report.Totals.Warnings++
			case severityInfo:
				report.Totals.Infos++
			}

			fa.add(severity)
			ctx.fileRules[path][diag.RuleID] = true

			ra := ctx.rule(diag.RuleID, diag.RuleName)
			ra.add(severity)
			ctx.ruleFiles[diag.RuleID][path] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, newEntry(path, severity, diag, opts.RuleFormat))
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts.SortBy)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts.SortBy)
	}

	return report
}

func newEntry(path, severity string, diag thesislint.Diagnostic, format config.RuleFormat) DiagnosticEntry {
	return DiagnosticEntry{
		FilePath:   path,
		RuleID:     diag.RuleID,
		RuleName:   diag.RuleName,
		Rule:       format.Identifier(diag.RuleID, diag.RuleName),
		Severity:   severity,
		Message:    diag.Message,
		Line:       diag.Line,
		Column:     diag.Column,
		Suggestion: diag.Suggestion,
		Context:    diag.Context,
	}
}

func (ctx *analysisContext) buildByRule(sortBy SortField) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for id, ra := range ctx.ruleMap {
		ra.Files = slices.Sorted(maps.Keys(ctx.ruleFiles[id]))
		result = append(result, *ra)
	}
	slices.SortFunc(result, func(a, b RuleAnalysis) int {
		return compareCounts(a.counts, b.counts, a.RuleID, b.RuleID, sortBy)
	})
	return result
}

func (ctx *analysisContext) buildByFile(sortBy SortField) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		fa.Rules = slices.Sorted(maps.Keys(ctx.fileRules[path]))
		result = append(result, *fa)
	}
	slices.SortFunc(result, func(a, b FileAnalysis) int {
		return compareCounts(a.counts, b.counts, a.Path, b.Path, sortBy)
	})
	return result
}

// compareCounts orders two groups by sortBy, breaking ties by key so the
// output is stable across runs.
func compareCounts(a, b counts, keyA, keyB string, sortBy SortField) int {
	switch sortBy {
	case SortByAlpha:
		return cmp.Compare(keyA, keyB)
	case SortBySeverity:
		return cmp.Or(
			cmp.Compare(b.Errors, a.Errors),
			cmp.Compare(b.Warnings, a.Warnings),
			cmp.Compare(b.Issues, a.Issues),
			cmp.Compare(keyA, keyB),
		)
	default:
		return cmp.Or(cmp.Compare(b.Issues, a.Issues), cmp.Compare(keyA, keyB))
	}
}
