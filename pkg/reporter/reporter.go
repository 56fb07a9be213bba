// Package reporter writes lint and cross-reference results as styled text,
// summary tables or JSON.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/thesismd/pkg/analysis"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/xref"
)

// Compile-time interface checks.
var (
	_ Reporter     = (*reporterFacade)(nil)
	_ Reporter     = (*TextReporter)(nil)
	_ XrefReporter = (*TextReporter)(nil)
	_ XrefReporter = (*JSONReporter)(nil)
	_ Renderer     = (*JSONReporter)(nil)
	_ Renderer     = (*SummaryRenderer)(nil)
)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// XrefOutcome is the result of resolving one document, or the error that
// stopped it.
type XrefOutcome struct {
	Input  string
	Result *xref.FileResult
	Err    error
}

// XrefReporter formats and writes cross-reference results.
type XrefReporter interface {
	ReportXref(ctx context.Context, outcomes []XrefOutcome) error
}

// Renderer writes an analyzed lint report. The JSON and summary formats
// work from the aggregated analysis.Report rather than the raw runner result.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.RuleFormat = opts.RuleFormat
	analysisOpts.WorkingDir = opts.WorkingDir

	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

func normalize(opts Options) (Options, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if !opts.Format.IsValid() {
		return opts, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return opts, nil
}

// New creates a lint Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	opts, err := normalize(opts)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatJSON:
		return newRendererFacade(NewJSONReporter(opts), opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// NewXref creates a cross-reference reporter for the specified options.
// The summary format prints only the closing totals line.
func NewXref(opts Options) (XrefReporter, error) {
	opts, err := normalize(opts)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSummary:
		r := NewTextReporter(opts)
		r.summaryOnly = true
		return r, nil
	default:
		return NewTextReporter(opts), nil
	}
}
