package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/thesismd/internal/ui/pretty"
	"github.com/yaklabco/thesismd/pkg/analysis"
)

// Table layout for summary output. Both tables share one width.
const (
	tableWidth        = 84
	ruleColWidth      = 30
	fileColWidth      = 60
	numColWidth       = 7
	warnColWidth      = 8
	maxRuleNameLength = 28
	maxFilePathLength = 58
)

// padRight pads s to width display cells. CJK characters count as two.
// This must be called before applying ANSI styles.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// padLeft pads s on the left to width display cells.
func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// truncateLeft keeps the last runes of s that fit in width cells.
func truncateLeft(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for i := range runes {
		if tail := string(runes[i:]); lipgloss.Width(tail) < width {
			return "…" + tail
		}
	}
	return "…"
}

// SummaryRenderer formats lint results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	for _, f := range report.Failures {
		fmt.Fprintf(r.out, "%s: %s\n",
			r.styles.FilePath.Render(f.Path),
			r.styles.Error.Render("error: "+f.Error),
		)
	}

	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return nil
	}

	r.renderRuleTable(report.ByRule)
	fmt.Fprintln(r.out)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))
}

// rowStyle colors a name by the worst severity in its row.
func (r *SummaryRenderer) rowStyle(errors, warnings int) lipgloss.Style {
	switch {
	case errors > 0:
		return r.styles.Error.UnsetBold()
	case warnings > 0:
		return r.styles.Warning.UnsetBold()
	default:
		return r.styles.Message
	}
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.Bold.Render(padRight("Rule", ruleColWidth)),
		r.styles.Bold.Render(padLeft("Count", numColWidth)),
		r.styles.Bold.Render(padLeft("Errors", numColWidth)),
		r.styles.Bold.Render(padLeft("Warnings", warnColWidth)),
		r.styles.Bold.Render(padLeft("Info", numColWidth)),
	)
	r.separator()

	for _, rule := range rules {
		name := rule.RuleName
		if name == "" {
			name = rule.RuleID
		}
		if len(name) > maxRuleNameLength {
			name = name[:maxRuleNameLength] + "…"
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			r.rowStyle(rule.Errors, rule.Warnings).Render(padRight(name, ruleColWidth)),
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
			padLeft(strconv.Itoa(rule.Infos), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.Bold.Render(padRight("File", fileColWidth)),
		r.styles.Bold.Render(padLeft("Count", numColWidth)),
		r.styles.Bold.Render(padLeft("Errors", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := truncateLeft(file.Path, maxFilePathLength)

		fmt.Fprintf(r.out, "%s %s %s\n",
			r.rowStyle(file.Errors, file.Warnings).Render(padRight(path, fileColWidth)),
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	line := pretty.Plural(totals.Issues, "issue", "issues")

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(pretty.Plural(totals.Errors, "error", "errors")))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(pretty.Plural(totals.Warnings, "warning", "warnings")))
	}
	if totals.Infos > 0 {
		severityParts = append(severityParts, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}

	line += " in " + pretty.Plural(totals.FilesWithIssues, "file", "files")

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
