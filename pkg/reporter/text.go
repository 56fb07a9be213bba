package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/thesismd/internal/ui/pretty"
	"github.com/yaklabco/thesismd/pkg/analysis"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts        Options
	styles      *pretty.Styles
	bw          *bufio.Writer
	summaryOnly bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

func (r *TextReporter) flush(err *error) {
	if flushErr := r.bw.Flush(); *err == nil {
		*err = flushErr
	}
}

func (r *TextReporter) path(p string) string {
	return analysis.RelativePath(p, r.opts.WorkingDir)
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer r.flush(&err)

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(r.path(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || len(file.Result.Diagnostics) == 0 {
			continue
		}

		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(r.path(file.Path), len(file.Result.Diagnostics)))
		}

		for _, diag := range file.Result.Diagnostics {
			r.writeDiagnostic(diag)
			total++
		}

		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) writeDiagnostic(diag thesislint.Diagnostic) {
	diag.FilePath = r.path(diag.FilePath)
	fmt.Fprint(r.bw, r.styles.FormatDiagnosticWithFormat(&diag, r.opts.ShowContext, r.opts.RuleFormat))
}

// ReportXref implements XrefReporter.
func (r *TextReporter) ReportXref(_ context.Context, outcomes []XrefOutcome) (err error) {
	defer r.flush(&err)

	var totals pretty.XrefTotals

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			totals.Failed++
			if !r.summaryOnly {
				fmt.Fprintf(r.bw, "%s: %s\n",
					r.styles.FilePath.Render(r.path(outcome.Input)),
					r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Err)),
				)
			}
			continue
		}
		if outcome.Result == nil {
			continue
		}

		totals.Add(outcome.Result)
		if !r.summaryOnly {
			r.writeXrefFile(outcome)
		}
	}

	if r.opts.ShowSummary || r.summaryOnly {
		fmt.Fprint(r.bw, r.styles.FormatXrefSummary(totals))
	}

	return nil
}

func (r *TextReporter) writeXrefFile(outcome XrefOutcome) {
	fr := outcome.Result
	report := fr.Report
	path := r.path(outcome.Input)

	fmt.Fprintln(r.bw, r.styles.FormatXrefHeader(fr, path, r.path(fr.Output)))
	fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render(r.styles.FormatXrefCounts(report)))

	if r.opts.Verbose {
		for _, def := range report.Definitions {
			fmt.Fprint(r.bw, r.styles.FormatDefinition(path, fr.SourceLine(def.Line), def))
		}
		for _, res := range report.Resolutions {
			fmt.Fprint(r.bw, r.styles.FormatResolution(path, fr.SourceLine(res.Line), fr.SourceLine(res.Target.Line), res))
		}
	}

	for _, u := range report.Unresolved {
		fmt.Fprint(r.bw, r.styles.FormatUnresolved(path, fr.SourceLine(u.Line), u))
	}

	for _, d := range report.Duplicates {
		lines := make([]int, len(d.Lines))
		for i, n := range d.Lines {
			lines[i] = fr.SourceLine(n)
		}
		fmt.Fprint(r.bw, r.styles.FormatDuplicate(path, lines, d))
	}

	for _, n := range report.Unterminated {
		fmt.Fprint(r.bw, r.styles.FormatUnterminated(path, fr.SourceLine(n)))
	}

	fmt.Fprintln(r.bw)
}
