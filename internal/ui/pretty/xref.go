package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/xref"
)

// XrefTotals aggregates cross-reference results over several documents.
type XrefTotals struct {
	Files        int
	Failed       int
	Written      int
	BackedUp     int
	Figures      int
	Tables       int
	Listings     int
	Replaced     int
	Unresolved   int
	Duplicates   int
	Unterminated int
}

// Add folds one document's report into the totals.
func (t *XrefTotals) Add(fr *xref.FileResult) {
	t.Files++
	if fr.Written {
		t.Written++
	}
	if fr.BackedUp {
		t.BackedUp++
	}
	if fr.Result == nil || fr.Report == nil {
		return
	}
	r := fr.Report
	t.Figures += r.Figures
	t.Tables += r.Tables
	t.Listings += r.Listings
	t.Replaced += r.ReferencesReplaced
	t.Unresolved += len(r.Unresolved)
	t.Duplicates += len(r.Duplicates)
	t.Unterminated += len(r.Unterminated)
}

// FormatXrefHeader describes what happened to one document.
func (s *Styles) FormatXrefHeader(fr *xref.FileResult, input, output string) string {
	header := s.FilePath.Render(input)
	if output != "" && output != input {
		header += s.Arrow.Render(" -> ") + s.FilePath.Render(output)
	}

	var status string
	switch {
	case fr.Written && fr.BackedUp:
		status = "rewritten, backup kept"
	case fr.Written:
		status = "written"
	case fr.Changed:
		status = "would change"
	default:
		status = "unchanged"
	}

	return header + s.Dim.Render(" ("+status+")")
}

// FormatXrefCounts renders the definition and reference counts of a report.
// Example: "3 figures, 2 tables, 1 listing, 5 references replaced".
func (s *Styles) FormatXrefCounts(r *xref.Report) string {
	return strings.Join([]string{
		Plural(r.Figures, "figure", "figures"),
		Plural(r.Tables, "table", "tables"),
		Plural(r.Listings, "listing", "listings"),
		Plural(r.ReferencesReplaced, "reference", "references") + " replaced",
	}, ", ")
}

// FormatDefinition renders a newly annotated definition.
func (s *Styles) FormatDefinition(path string, line int, occ xref.Occurrence) string {
	return fmt.Sprintf("  %s  %s %s %s %s\n",
		s.FormatLocation(path, line, 0),
		s.Kind.Render(occ.Kind.String()),
		s.Label.Render(strconv.Quote(occ.Label)),
		s.Arrow.Render("->"),
		s.Citation.Render("#"+occ.ID),
	)
}

// FormatResolution renders a placeholder that was rewritten.
func (s *Styles) FormatResolution(path string, line, targetLine int, res xref.Resolution) string {
	detail := fmt.Sprintf("line %d", targetLine)
	if res.Candidates > 1 {
		detail = fmt.Sprintf("%s, nearest %s of %d", detail, res.Direction, res.Candidates)
	}
	return fmt.Sprintf("  %s  %s %s %s %s\n",
		s.FormatLocation(path, line, 0),
		s.Kind.Render(res.Kind.String()),
		s.Label.Render(strconv.Quote(res.RawName)),
		s.Arrow.Render("->"),
		s.Citation.Render("@"+res.Target.ID)+s.Dim.Render(" ("+detail+")"),
	)
}

// FormatUnresolved renders a placeholder with no matching definition.
func (s *Styles) FormatUnresolved(path string, line int, u xref.Unresolved) string {
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		s.FormatLocation(path, line, 0),
		s.FormatSeverity(config.SeverityWarning),
		s.Message.Render(fmt.Sprintf("No %s named %q", u.Kind, u.RawName)),
		s.Dim.Render(u.Text),
	)
}

// FormatDuplicate renders a name defined more than once. lines are the
// source lines of the definitions.
func (s *Styles) FormatDuplicate(path string, lines []int, d xref.Duplicate) string {
	first := 0
	if len(lines) > 0 {
		first = lines[0]
	}
	nums := make([]string, len(lines))
	for i, n := range lines {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		s.FormatLocation(path, first, 0),
		s.FormatSeverity(config.SeverityInfo),
		s.Message.Render(fmt.Sprintf("%s %q is defined %d times (lines %s)",
			d.Kind, d.Name, d.Count(), strings.Join(nums, ", "))),
		s.Dim.Render(strings.Join(d.IDs, ", ")),
	)
}

// FormatUnterminated renders an attribute block that never closed.
func (s *Styles) FormatUnterminated(path string, line int) string {
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FormatLocation(path, line, 0),
		s.FormatSeverity(config.SeverityError),
		s.Message.Render("Figure attribute block is never closed"),
	)
}

// FormatXrefSummary formats cross-reference totals as a single line.
// Example: "2 files: 5 figures, 1 table, 0 listings, 9 references replaced; 1 unresolved".
func (s *Styles) FormatXrefSummary(t XrefTotals) string {
	var builder strings.Builder

	builder.WriteString(Plural(t.Files, "file", "files") + ": ")
	builder.WriteString(s.FormatXrefCounts(&xref.Report{
		Figures:            t.Figures,
		Tables:             t.Tables,
		Listings:           t.Listings,
		ReferencesReplaced: t.Replaced,
	}))

	var warnings []string
	if t.Unresolved > 0 {
		warnings = append(warnings, s.Warning.Render(strconv.Itoa(t.Unresolved)+" unresolved"))
	}
	if t.Duplicates > 0 {
		warnings = append(warnings, s.Info.Render(Plural(t.Duplicates, "duplicate name", "duplicate names")))
	}
	if t.Unterminated > 0 {
		warnings = append(warnings, s.Error.Render(Plural(t.Unterminated, "unclosed attribute block", "unclosed attribute blocks")))
	}
	if t.Failed > 0 {
		warnings = append(warnings, s.Failure.Render(Plural(t.Failed, "file failed", "files failed")))
	}

	if len(warnings) > 0 {
		builder.WriteString("; " + strings.Join(warnings, ", "))
	} else {
		builder.WriteString("; " + s.Success.Render("all references resolved"))
	}

	if t.Written > 0 {
		builder.WriteString(s.Dim.Render(fmt.Sprintf(" (%s written", Plural(t.Written, "file", "files"))))
		if t.BackedUp > 0 {
			builder.WriteString(s.Dim.Render(fmt.Sprintf(", %d backed up", t.BackedUp)))
		}
		builder.WriteString(s.Dim.Render(")"))
	}

	return builder.String() + "\n"
}
