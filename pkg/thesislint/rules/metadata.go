package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/fsutil"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// FrontMatterRule checks the YAML metadata block pandoc reads citation
// settings from.
type FrontMatterRule struct {
	thesislint.BaseRule
}

// NewFrontMatterRule creates a new front matter rule.
func NewFrontMatterRule() *FrontMatterRule {
	return &FrontMatterRule{
		BaseRule: thesislint.NewBaseRule(
			"TM001",
			"front-matter",
			"Document starts with YAML front matter whose csl and bibliography entries exist",
			config.SeverityError,
			"metadata", "citations",
		),
	}
}

// Apply checks the front matter block.
//
// Options:
//   - required: report documents without front matter (default true)
//   - csl_dir: directory the csl entry must point into (default "config")
func (r *FrontMatterRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	fm := doc.FrontMatter

	if fm == nil {
		if !ctx.OptionBool("required", true) || doc.LineCount() == 0 {
			return nil, nil
		}
		return []thesislint.Diagnostic{
			r.Diag(1, "Document does not start with YAML front matter").
				WithSuggestion("Add a block opened and closed by \"---\" on the first lines").
				WithContext(doc.Line(1)).
				Build(),
		}, nil
	}

	if !fm.Terminated() {
		return []thesislint.Diagnostic{
			r.Diag(fm.StartLine, "Front matter is never closed").
				WithSuggestion("Close the block with a line containing only \"---\"").
				Build(),
		}, nil
	}

	var diags []thesislint.Diagnostic

	for n := fm.StartLine + 1; n < fm.EndLine; n++ {
		if strings.TrimSpace(doc.Line(n)) == "" {
			diags = append(diags, r.Diag(n, "Blank line inside front matter").
				WithSeverity(config.SeverityWarning).
				WithSuggestion("Remove the blank line so the block is read as one YAML document").
				Build())
		}
	}

	if fm.Err != nil {
		diags = append(diags, r.Diag(fm.StartLine, fmt.Sprintf("Invalid YAML in front matter: %v", fm.Err)).Build())
		return diags, nil
	}

	cslDir := strings.Trim(filepath.ToSlash(ctx.OptionString("csl_dir", "config")), "/")
	if csl, ok := fm.String("csl"); ok {
		line := fm.KeyLine("csl")
		slashed := filepath.ToSlash(csl)
		switch {
		case isRemote(csl):
		case cslDir != "" && !strings.Contains("/"+slashed, "/"+cslDir+"/"):
			diags = append(diags, r.Diag(line, fmt.Sprintf("CSL style %q is not inside %s/", csl, cslDir)).
				WithSuggestion(fmt.Sprintf("Keep citation styles under %s/", cslDir)).
				WithContext(doc.Line(line)).
				Build())
		case !fileExists(doc.ResolvePath(csl)):
			diags = append(diags, r.Diag(line, fmt.Sprintf("CSL style not found: %s", csl)).
				WithContext(doc.Line(line)).
				Build())
		}
	}

	for _, bib := range fm.Strings("bibliography") {
		if isRemote(bib) || fileExists(doc.ResolvePath(bib)) {
			continue
		}
		line := fm.KeyLine("bibliography")
		diags = append(diags, r.Diag(line, fmt.Sprintf("Bibliography file not found: %s", bib)).
			WithSuggestion("Paths are relative to the document's directory").
			WithContext(doc.Line(line)).
			Build())
	}

	return diags, nil
}

// Citation grammar.
var (
	bibEntryPattern      = regexp.MustCompile(`(?m)^\s*@\w+\s*\{\s*([^,\s]+)\s*,`)
	citationGroupPattern = regexp.MustCompile(`\[([^\[\]]*@[^\[\]]*)\]`)
	citationKeyPattern   = regexp.MustCompile(`(?:^|[\s;\[])-?@([\p{L}\p{N}_][\p{L}\p{N}_:.#$%&+?<>~/-]*)`)
	numericKeyPattern    = regexp.MustCompile(`^\d+$`)
)

// CitationKeysRule checks that bracketed citations name entries in the
// document's bibliography.
type CitationKeysRule struct {
	thesislint.BaseRule
}

// NewCitationKeysRule creates a new citation keys rule.
func NewCitationKeysRule() *CitationKeysRule {
	return &CitationKeysRule{
		BaseRule: thesislint.NewBaseRule(
			"TM002",
			"citation-keys",
			"Citation keys exist in the bibliography",
			config.SeverityError,
			"citations",
		),
	}
}

// Apply checks every [@key] citation against the BibTeX entries.
func (r *CitationKeysRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	if doc.FrontMatter == nil {
		return nil, nil
	}

	keys, loaded := r.loadKeys(ctx)
	if !loaded {
		return nil, nil
	}

	reserved := reservedPrefixes(ctx)

	var diags []thesislint.Diagnostic
	for n, line := range doc.TextLines() {
		if ctx.Cancelled() {
			return nil, ctx.Ctx.Err()
		}

		for _, group := range citationGroupPattern.FindAllStringSubmatchIndex(line, -1) {
			content := line[group[2]:group[3]]
			for _, m := range citationKeyPattern.FindAllStringSubmatchIndex(content, -1) {
				key := strings.TrimRight(content[m[2]:m[3]], ".:?/-")
				if key == "" || numericKeyPattern.MatchString(key) || hasReservedPrefix(key, reserved) {
					continue
				}
				if _, ok := keys[key]; ok {
					continue
				}
				diags = append(diags, r.Diag(n, fmt.Sprintf("Citation key @%s is not in the bibliography", key)).
					WithColumn(group[2]+m[2]+1).
					WithContext(line[group[0]:group[1]]).
					Build())
			}
		}
	}

	return diags, nil
}

// loadKeys reads the entry keys of every readable bibliography file. Missing
// files are reported by the front matter rule.
func (r *CitationKeysRule) loadKeys(ctx *thesislint.RuleContext) (map[string]struct{}, bool) {
	keys := make(map[string]struct{})
	loaded := false

	for _, bib := range ctx.Doc.FrontMatter.Strings("bibliography") {
		if isRemote(bib) {
			continue
		}
		content, _, err := fsutil.ReadFile(ctx.Ctx, ctx.Doc.ResolvePath(bib))
		if err != nil {
			continue
		}
		loaded = true
		for _, m := range bibEntryPattern.FindAllSubmatch(content, -1) {
			keys[string(m[1])] = struct{}{}
		}
	}

	return keys, loaded
}

// reservedPrefixes returns the "token:" prefixes that mark pandoc-crossref
// citations rather than bibliography keys.
func reservedPrefixes(ctx *thesislint.RuleContext) []string {
	tokens := processor(ctx).Tokens()
	return []string{
		tokens.Figure + ":",
		tokens.Table + ":",
		tokens.Listing + ":",
		"sec:",
		"eq:",
	}
}

func hasReservedPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

var footnotePattern = regexp.MustCompile(`\[\^([^\]\s]+)\]`)

// FootnotePairsRule checks that every footnote reference has a definition
// and every definition is referenced.
type FootnotePairsRule struct {
	thesislint.BaseRule
}

// NewFootnotePairsRule creates a new footnote pairs rule.
func NewFootnotePairsRule() *FootnotePairsRule {
	return &FootnotePairsRule{
		BaseRule: thesislint.NewBaseRule(
			"TM003",
			"footnote-pairs",
			"Footnotes are both referenced and defined",
			config.SeverityError,
			"footnotes",
		),
	}
}

type footnoteUse struct {
	line   int
	column int
	text   string
}

// Apply pairs footnote references with definitions.
func (r *FootnotePairsRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	defs := make(map[string]footnoteUse)
	var defOrder []string
	refs := make(map[string][]footnoteUse)
	var refOrder []string

	for n, line := range ctx.Doc.TextLines() {
		indent := len(line) - len(strings.TrimLeft(line, " "))

		for _, m := range footnotePattern.FindAllStringSubmatchIndex(line, -1) {
			label := line[m[2]:m[3]]
			use := footnoteUse{line: n, column: m[0] + 1, text: line}

			if m[0] == indent && indent < 4 && strings.HasPrefix(line[m[1]:], ":") {
				if first, dup := defs[label]; dup {
					diags = append(diags, r.Diag(n, fmt.Sprintf("Footnote [^%s] is defined again (first on line %d)", label, first.line)).
						WithColumn(use.column).
						WithContext(line).
						Build())
					continue
				}
				defs[label] = use
				defOrder = append(defOrder, label)
				continue
			}

			if _, seen := refs[label]; !seen {
				refOrder = append(refOrder, label)
			}
			refs[label] = append(refs[label], use)
		}
	}

	for _, label := range refOrder {
		if _, ok := defs[label]; ok {
			continue
		}
		for _, use := range refs[label] {
			diags = append(diags, r.Diag(use.line, fmt.Sprintf("Footnote [^%s] is used but never defined", label)).
				WithColumn(use.column).
				WithSuggestion(fmt.Sprintf("Add a definition line \"[^%s]: ...\"", label)).
				WithContext(use.text).
				Build())
		}
	}

	for _, label := range defOrder {
		if _, ok := refs[label]; ok {
			continue
		}
		def := defs[label]
		diags = append(diags, r.Diag(def.line, fmt.Sprintf("Footnote [^%s] is defined but never used", label)).
			WithColumn(def.column).
			WithContext(def.text).
			Build())
	}

	return diags, nil
}

// Manual citation grammar.
var (
	manualCitationPattern = regexp.MustCompile(`\[\d+(?:\s*[,，\-–]\s*\d+)*\]`)
	linkDefinitionPattern = regexp.MustCompile(`^\s*\[\d+\]:`)
)

// CitationFormatRule reports hand-numbered citations such as [3] that
// bypass the bibliography.
type CitationFormatRule struct {
	thesislint.BaseRule
}

// NewCitationFormatRule creates a new citation format rule.
func NewCitationFormatRule() *CitationFormatRule {
	return &CitationFormatRule{
		BaseRule: thesislint.NewBaseRule(
			"TM023",
			"citation-format",
			"Citations use [@key] rather than hand-numbered [N]",
			config.SeverityWarning,
			"citations",
		),
	}
}

// Apply looks for bracketed numbers outside code, links and footnotes.
func (r *CitationFormatRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		if linkDefinitionPattern.MatchString(line) {
			continue
		}
		masked := maskCodeSpans(line)
		indent := len(masked) - len(strings.TrimLeft(masked, " \t"))

		for _, loc := range manualCitationPattern.FindAllStringIndex(masked, -1) {
			if loc[0] == indent {
				continue
			}
			if loc[1] < len(masked) && strings.ContainsRune("([:", rune(masked[loc[1]])) {
				continue
			}
			if loc[0] > 0 && strings.ContainsRune("!]", rune(masked[loc[0]-1])) {
				continue
			}
			diags = append(diags, r.Diag(n, fmt.Sprintf("Hand-numbered citation %s", masked[loc[0]:loc[1]])).
				WithColumn(loc[0]+1).
				WithSuggestion("Cite the bibliography entry with [@key] so numbering follows the CSL style").
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}
