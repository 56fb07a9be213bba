package rules

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// placeholderPattern matches anything shaped like a placeholder, including
// the spellings the resolver does not accept.
var placeholderPattern = regexp.MustCompile(
	`[{｛][{｛](\s*)([^{}｛｝:：\s]+)(\s*)([:：])(\s*)([^}｝]*?)(\s*)[}｝][}｝]`)

// PlaceholderFormatRule checks the spelling of {{kind:name}} placeholders.
type PlaceholderFormatRule struct {
	thesislint.BaseRule
}

// NewPlaceholderFormatRule creates a new placeholder format rule.
func NewPlaceholderFormatRule() *PlaceholderFormatRule {
	return &PlaceholderFormatRule{
		BaseRule: thesislint.NewBaseRule(
			"TM009",
			"placeholder-format",
			"Cross-reference placeholders are written as {{kind:name}}",
			config.SeverityWarning,
			"crossref",
		),
	}
}

// Apply reports placeholders the resolver would skip or only tolerate.
func (r *PlaceholderFormatRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	tokens := processor(ctx).Tokens()

	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		for _, m := range placeholderPattern.FindAllStringSubmatchIndex(line, -1) {
			text := line[m[0]:m[1]]
			lead := line[m[2]:m[3]]
			word := line[m[4]:m[5]]
			beforeColon := line[m[6]:m[7]]
			colon := line[m[8]:m[9]]
			afterColon := line[m[10]:m[11]]
			name := line[m[12]:m[13]]

			diag := func(msg string) *thesislint.DiagnosticBuilder {
				return r.Diag(n, msg).WithColumn(m[0] + 1).WithContext(text)
			}

			kind, known := tokens.Parse(word)
			if !known {
				diags = append(diags, diag(fmt.Sprintf("Unknown placeholder kind %q", word)).
					WithSuggestion("Use one of: "+strings.Join(tokens.Words(), ", ")).
					Build())
				continue
			}

			canonical := fmt.Sprintf("{{%s:%s}}", tokens.Of(kind), strings.TrimSpace(name))

			switch {
			case lead != "":
				diags = append(diags, diag("Space after \"{{\"; the placeholder is not recognized").
					WithSuggestion(canonical).
					Build())
			case beforeColon != "":
				diags = append(diags, diag("Space before the colon; the placeholder is not recognized").
					WithSuggestion(canonical).
					Build())
			case strings.TrimSpace(name) == "":
				diags = append(diags, diag("Placeholder has no name").Build())
			case afterColon != "":
				diags = append(diags, diag("Space after the colon in placeholder").
					WithSuggestion(canonical).
					Build())
			}

			if strings.ContainsAny(text, "｛｝") || colon == "：" {
				diags = append(diags, diag("Fullwidth punctuation in placeholder").
					WithSuggestion(canonical).
					Build())
			}
		}
	}

	return diags, nil
}

// CrossrefResolutionRule dry-runs the cross-reference rewrite.
type CrossrefResolutionRule struct {
	thesislint.BaseRule
}

// NewCrossrefResolutionRule creates a new cross-reference resolution rule.
func NewCrossrefResolutionRule() *CrossrefResolutionRule {
	return &CrossrefResolutionRule{
		BaseRule: thesislint.NewBaseRule(
			"TM010",
			"crossref-resolution",
			"Every placeholder resolves to a figure, table or listing",
			config.SeverityWarning,
			"crossref",
		),
	}
}

// Apply reports unresolved placeholders and unterminated attribute blocks.
func (r *CrossrefResolutionRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	result, err := processor(ctx).Process(ctx.Ctx, ctx.Doc.Content)
	if err != nil {
		return nil, err
	}

	var diags []thesislint.Diagnostic

	for _, u := range result.Report.Unresolved {
		line := result.SourceLine(u.Line)
		diags = append(diags, r.Diag(line, fmt.Sprintf("No %s named %q", u.Kind, u.RawName)).
			WithSuggestion(fmt.Sprintf("Define a %s labelled %q or fix the placeholder", u.Kind, u.RawName)).
			WithContext(u.Text).
			Build())
	}

	for _, n := range result.Report.Unterminated {
		line := result.SourceLine(n)
		diags = append(diags, r.Diag(line, "Figure attribute block is never closed").
			WithSeverity(config.SeverityError).
			WithContext(ctx.Doc.Line(line)).
			Build())
	}

	return diags, nil
}

// DuplicateLabelRule reports names defined more than once.
type DuplicateLabelRule struct {
	thesislint.BaseRule
}

// NewDuplicateLabelRule creates a new duplicate label rule.
func NewDuplicateLabelRule() *DuplicateLabelRule {
	return &DuplicateLabelRule{
		BaseRule: thesislint.NewBaseRule(
			"TM015",
			"duplicate-label",
			"Figure, table and listing names are unique",
			config.SeverityInfo,
			"crossref",
		),
	}
}

// Apply reports each repeated definition after the first.
func (r *DuplicateLabelRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	result, err := processor(ctx).Process(ctx.Ctx, ctx.Doc.Content)
	if err != nil {
		return nil, err
	}

	var diags []thesislint.Diagnostic

	for _, c := range result.Report.Collisions {
		line := result.SourceLine(c.Occurrence.Line)
		msg := fmt.Sprintf("%s %q is also defined on line %d; references resolve to the nearest one",
			c.Occurrence.Kind, c.Occurrence.Label, result.SourceLine(c.First.Line))
		if c.Collapsed() {
			msg = fmt.Sprintf("%s %q shares the name %q with %q on line %d",
				c.Occurrence.Kind, c.Occurrence.Label, c.Occurrence.Name, c.First.Label, result.SourceLine(c.First.Line))
		}
		diags = append(diags, r.Diag(line, msg).
			WithContext(ctx.Doc.Line(line)).
			Build())
	}

	return diags, nil
}

// Identifier grammar.
var (
	explicitIDPattern = regexp.MustCompile(`\{[^}]*?#([^\s}]+)(\s*)([^}]*)\}`)
	figureIDPattern   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)\{[^}]*?#([^\s}]+)`)
	tableLinePattern  = regexp.MustCompile(`^\s*Table:`)
)

// IDHygieneRule checks explicit {#id} identifiers.
type IDHygieneRule struct {
	thesislint.BaseRule
}

// NewIDHygieneRule creates a new id hygiene rule.
func NewIDHygieneRule() *IDHygieneRule {
	return &IDHygieneRule{
		BaseRule: thesislint.NewBaseRule(
			"TM011",
			"id-hygiene",
			"Explicit identifiers are unique, contain no spaces and use the kind token",
			config.SeverityWarning,
			"crossref", "ids",
		),
	}
}

type idSite struct {
	line int
	text string
}

// Apply checks identifiers in text and on fence lines.
func (r *IDHygieneRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	tokens := processor(ctx).Tokens()

	var sites []idSite
	for n, line := range doc.TextLines() {
		sites = append(sites, idSite{line: n, text: line})
	}
	for _, cb := range doc.CodeBlocks {
		if cb.Fenced && cb.HasAttrs && !cb.IsRaw() {
			sites = append(sites, idSite{line: cb.OpenLine, text: doc.Line(cb.OpenLine)})
		}
	}
	sortSites(sites)

	seen := make(map[string]int)
	var diags []thesislint.Diagnostic

	for _, site := range sites {
		for _, m := range explicitIDPattern.FindAllStringSubmatchIndex(site.text, -1) {
			id := site.text[m[2]:m[3]]
			gap := site.text[m[4]:m[5]]
			next := site.text[m[6]:m[7]]

			if strings.HasSuffix(id, ":") {
				if gap != "" && next != "" && !strings.Contains(strings.Fields(next)[0], "=") {
					diags = append(diags, r.Diag(site.line, fmt.Sprintf("Identifier #%s is followed by a space", id)).
						WithColumn(m[0]+1).
						WithSuggestion("Identifiers cannot contain whitespace").
						WithContext(site.text).
						Build())
				}
				continue
			}

			if first, dup := seen[id]; dup {
				diags = append(diags, r.Diag(site.line, fmt.Sprintf("Identifier #%s is already used on line %d", id, first)).
					WithColumn(m[0]+1).
					WithContext(site.text).
					Build())
				continue
			}
			seen[id] = site.line
		}

		if m := figureIDPattern.FindStringSubmatch(site.text); m != nil && !strings.HasPrefix(m[1], tokens.Figure+":") {
			diags = append(diags, r.Diag(site.line, fmt.Sprintf("Figure identifier #%s does not start with %s:", m[1], tokens.Figure)).
				WithSuggestion("pandoc-crossref only numbers figures whose id has the figure prefix").
				WithContext(site.text).
				Build())
		}

		if tableLinePattern.MatchString(site.text) {
			if m := explicitIDPattern.FindStringSubmatch(site.text); m != nil && !strings.HasPrefix(m[1], tokens.Table+":") {
				diags = append(diags, r.Diag(site.line, fmt.Sprintf("Table identifier #%s does not start with %s:", m[1], tokens.Table)).
					WithContext(site.text).
					Build())
			}
		}
	}

	return diags, nil
}

func sortSites(sites []idSite) {
	slices.SortStableFunc(sites, func(a, b idSite) int {
		return cmp.Compare(a.line, b.line)
	})
}
