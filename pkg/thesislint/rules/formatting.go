package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

var indentedLinePattern = regexp.MustCompile(`^(?: {4,}|\t)\s*\S`)

// ParagraphIndentRule reports paragraphs indented by hand. Pandoc reads
// such lines as code, and the reference document already indents first lines.
type ParagraphIndentRule struct {
	thesislint.BaseRule
}

// NewParagraphIndentRule creates a new paragraph indent rule.
func NewParagraphIndentRule() *ParagraphIndentRule {
	return &ParagraphIndentRule{
		BaseRule: thesislint.NewBaseRule(
			"TM024",
			"paragraph-indent",
			"Paragraphs are not indented with spaces or tabs",
			config.SeverityWarning,
			"formatting", "whitespace",
		),
	}
}

// Apply checks lines outside fenced code and front matter. Indented lines
// that continue a list item or another indented line are left alone.
func (r *ParagraphIndentRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	fenced := fencedLines(doc)

	var diags []thesislint.Diagnostic

	for n := 1; n <= doc.LineCount(); n++ {
		line := doc.Line(n)
		if fenced[n] || doc.InFrontMatter(n) || !indentedLinePattern.MatchString(line) {
			continue
		}
		if listItemPattern.MatchString(line) || strings.HasPrefix(strings.TrimSpace(line), "<") {
			continue
		}
		if prev := prevNonBlank(doc, n); prev > 0 {
			above := doc.Line(prev)
			if indentedLinePattern.MatchString(above) || listItemPattern.MatchString(above) {
				continue
			}
		}

		diags = append(diags, r.Diag(n, "Paragraph starts with an indent").
			WithSuggestion("Remove the leading whitespace; a blank line separates paragraphs").
			WithContext(line).
			Build())
	}

	return diags, nil
}

// fencedLines marks the lines of fenced code blocks, fences included.
func fencedLines(doc *thesislint.Document) map[int]bool {
	lines := make(map[int]bool)
	for _, cb := range doc.CodeBlocks {
		if !cb.Fenced {
			continue
		}
		end := cb.CloseLine
		if end == 0 {
			end = doc.LineCount()
		}
		for n := cb.OpenLine; n <= end; n++ {
			lines[n] = true
		}
	}
	return lines
}

var tightListPattern = regexp.MustCompile(`^(\s*)(\d+)\.([^\s\d.])`)

// OrderedListSpacingRule reports "1.item", which pandoc reads as a paragraph.
type OrderedListSpacingRule struct {
	thesislint.BaseRule
}

// NewOrderedListSpacingRule creates a new ordered list spacing rule.
func NewOrderedListSpacingRule() *OrderedListSpacingRule {
	return &OrderedListSpacingRule{
		BaseRule: thesislint.NewBaseRule(
			"TM025",
			"ordered-list-spacing",
			"Ordered list numbers are followed by a space",
			config.SeverityWarning,
			"formatting", "lists",
		),
	}
}

// Apply checks the start of each text line.
func (r *OrderedListSpacingRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		m := tightListPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		number := line[m[4]:m[5]]
		diags = append(diags, r.Diag(n, fmt.Sprintf("Missing space after list number %s.", number)).
			WithColumn(m[5]+2).
			WithSuggestion(fmt.Sprintf("Write \"%s. item\"", number)).
			WithContext(line).
			Build())
	}

	return diags, nil
}

var thematicBreakPattern = regexp.MustCompile(`^(?:(?:\*\s*){3,}|(?:-\s*){3,}|(?:_\s*){3,})$`)

// EmphasisPairingRule reports lines with an odd number of ** or ~~ markers.
type EmphasisPairingRule struct {
	thesislint.BaseRule
}

// NewEmphasisPairingRule creates a new emphasis pairing rule.
func NewEmphasisPairingRule() *EmphasisPairingRule {
	return &EmphasisPairingRule{
		BaseRule: thesislint.NewBaseRule(
			"TM026",
			"emphasis-pairing",
			"Bold and strikethrough markers are closed on the line they open",
			config.SeverityInfo,
			"formatting", "emphasis",
		),
	}
}

// Apply counts markers outside inline code. Italic * is not checked; it is
// too common in formulas and footnote text.
func (r *EmphasisPairingRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		content := strings.TrimSpace(maskCodeSpans(line))
		if thematicBreakPattern.MatchString(content) {
			continue
		}
		content = strings.TrimPrefix(content, "* ")

		if strings.Count(content, "**")%2 != 0 {
			diags = append(diags, r.Diag(n, "Unclosed ** bold marker").
				WithContext(line).
				Build())
		}
		if strings.Count(content, "~~")%2 != 0 {
			diags = append(diags, r.Diag(n, "Unclosed ~~ strikethrough marker").
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}
