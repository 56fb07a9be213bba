package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// HeadingSpacingRule checks that ATX headings stand in their own block.
type HeadingSpacingRule struct {
	thesislint.BaseRule
}

// NewHeadingSpacingRule creates a new heading spacing rule.
func NewHeadingSpacingRule() *HeadingSpacingRule {
	return &HeadingSpacingRule{
		BaseRule: thesislint.NewBaseRule(
			"TM012",
			"heading-spacing",
			"Headings are surrounded by blank lines",
			config.SeverityWarning,
			"headings", "blank_lines",
		),
	}
}

// Apply checks the lines around each heading.
func (r *HeadingSpacingRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	var diags []thesislint.Diagnostic

	for _, h := range doc.Headings {
		if !h.ATX {
			continue
		}
		line := doc.Line(h.Line)

		if prev := h.Line - 1; prev >= 1 {
			text := strings.TrimSpace(doc.Line(prev))
			if text != "" && text != "---" && !strings.HasPrefix(text, "#") {
				diags = append(diags, r.Diag(h.Line, "Missing blank line before heading").
					WithSuggestion("Insert a blank line above the heading").
					WithContext(line).
					Build())
			}
		}

		if next := h.Line + 1; next <= doc.LineCount() {
			if strings.TrimSpace(doc.Line(next)) != "" {
				diags = append(diags, r.Diag(h.Line, "Missing blank line after heading").
					WithSuggestion("Insert a blank line below the heading").
					WithContext(line).
					Build())
			}
		}
	}

	return diags, nil
}

// fullwidthCheck is one punctuation pattern and the fix for it.
type fullwidthCheck struct {
	pattern    *regexp.Regexp
	message    string
	suggestion string
}

//nolint:gochecknoglobals // Read-only lookup table.
var fullwidthChecks = []fullwidthCheck{
	{
		pattern:    regexp.MustCompile(`^\s*Table：`),
		message:    "Fullwidth colon after \"Table\"",
		suggestion: "Write \"Table: \" with an ASCII colon and a space",
	},
	{
		pattern:    regexp.MustCompile(`\]（`),
		message:    "Fullwidth parenthesis after link or image text",
		suggestion: "Use \"](\" so the link is recognized",
	},
	{
		pattern:    regexp.MustCompile(`\]\([^)]*）`),
		message:    "Link destination closed with a fullwidth parenthesis",
		suggestion: "Close the destination with \")\"",
	},
	{
		pattern:    regexp.MustCompile(`^\s*>\s*(注|数据来源):`),
		message:    "ASCII colon in a Chinese note",
		suggestion: "Use the fullwidth colon \"：\"",
	},
}

// FullwidthPunctuationRule checks punctuation that breaks Markdown syntax.
type FullwidthPunctuationRule struct {
	thesislint.BaseRule
}

// NewFullwidthPunctuationRule creates a new fullwidth punctuation rule.
func NewFullwidthPunctuationRule() *FullwidthPunctuationRule {
	return &FullwidthPunctuationRule{
		BaseRule: thesislint.NewBaseRule(
			"TM013",
			"fullwidth-punctuation",
			"Markdown syntax uses ASCII punctuation and Chinese notes use fullwidth colons",
			config.SeverityWarning,
			"typography", "cjk",
		),
	}
}

// Apply runs each punctuation check over the text lines.
func (r *FullwidthPunctuationRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		for _, check := range fullwidthChecks {
			loc := check.pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}
			diags = append(diags, r.Diag(n, check.message).
				WithColumn(loc[0]+1).
				WithSuggestion(check.suggestion).
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// RequiredSectionsRule checks that the main document has a references
// section with the pandoc citeproc anchor.
type RequiredSectionsRule struct {
	thesislint.BaseRule
}

// NewRequiredSectionsRule creates a new required sections rule.
func NewRequiredSectionsRule() *RequiredSectionsRule {
	return &RequiredSectionsRule{
		BaseRule: thesislint.NewBaseRule(
			"TM014",
			"required-sections",
			"Main document has a references section and a {#refs} anchor",
			config.SeverityWarning,
			"structure", "citations",
		),
	}
}

// Apply checks headings and the refs anchor.
//
// Options:
//   - main_only: only check documents with front matter (default true)
//   - references: accepted titles of the references section
//   - sections: further headings that must exist
//   - refs_anchor: require a {#refs} element (default true)
func (r *RequiredSectionsRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	if ctx.OptionBool("main_only", true) && doc.FrontMatter == nil {
		return nil, nil
	}

	titles := make(map[string]int, len(doc.Headings))
	for _, h := range doc.Headings {
		titles[strings.ToLower(headingTitle(h.Text))] = h.Line
	}

	var diags []thesislint.Diagnostic

	references := ctx.OptionStringSlice("references", []string{"参考文献", "References", "Bibliography"})
	found := false
	for _, title := range references {
		if _, ok := titles[strings.ToLower(title)]; ok {
			found = true
			break
		}
	}
	if !found && len(references) > 0 {
		diags = append(diags, r.Diag(0, "Missing references section").
			WithSuggestion(fmt.Sprintf("Add a heading titled %q", references[0])).
			Build())
	}

	for _, section := range ctx.OptionStringSlice("sections", nil) {
		if _, ok := titles[strings.ToLower(section)]; !ok {
			diags = append(diags, r.Diag(0, fmt.Sprintf("Missing required section %q", section)).Build())
		}
	}

	if ctx.OptionBool("refs_anchor", true) && !hasRefsAnchor(doc) {
		diags = append(diags, r.Diag(0, "Missing {#refs} anchor for the bibliography").
			WithSuggestion("Add \"::: {#refs}\" and \":::\" where the bibliography belongs").
			Build())
	}

	return diags, nil
}

// headingTitle strips a trailing attribute block from heading text.
func headingTitle(text string) string {
	return strings.TrimSpace(attrBlockPattern.ReplaceAllString(text, ""))
}

func hasRefsAnchor(doc *thesislint.Document) bool {
	for _, line := range doc.TextLines() {
		if strings.Contains(line, "{#refs}") || strings.Contains(line, `id="refs"`) {
			return true
		}
	}
	return false
}

// Heading number grammar.
var (
	decimalNumberPattern = regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2})*)(\.?)(\s*)(.*)$`)
	chapterPattern       = regexp.MustCompile(`^第[一二三四五六七八九十百\d]+章(\s*)(.*)$`)
)

// HeadingNumberingRule checks manually numbered headings.
type HeadingNumberingRule struct {
	thesislint.BaseRule
}

// NewHeadingNumberingRule creates a new heading numbering rule.
func NewHeadingNumberingRule() *HeadingNumberingRule {
	return &HeadingNumberingRule{
		BaseRule: thesislint.NewBaseRule(
			"TM016",
			"heading-numbering",
			"Manual heading numbers match the heading level",
			config.SeverityWarning,
			"headings", "structure",
		),
	}
}

// Apply compares the depth of "1.2.3"-style numbers with the heading level.
//
// Options:
//   - offset: heading levels above the first numbered level (default 0)
func (r *HeadingNumberingRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	offset := ctx.OptionInt("offset", 0)
	var diags []thesislint.Diagnostic

	for _, h := range ctx.Doc.Headings {
		text := headingTitle(h.Text)
		line := ctx.Doc.Line(h.Line)

		if m := chapterPattern.FindStringSubmatch(text); m != nil {
			if want := 1 + offset; h.Level != want {
				diags = append(diags, r.Diag(h.Line, fmt.Sprintf("Chapter heading is level %d, expected %d", h.Level, want)).
					WithContext(line).
					Build())
			}
			if m[1] == "" && m[2] != "" {
				diags = append(diags, r.Diag(h.Line, "Missing space after chapter number").
					WithContext(line).
					Build())
			}
			continue
		}

		m := decimalNumberPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		number, dot, space, rest := m[1], m[2], m[3], m[4]
		if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			continue
		}
		// "2024 results" is prose; a bare integer only counts with a dot or a space.
		if !strings.Contains(number, ".") && dot == "" && space == "" {
			continue
		}

		depth := strings.Count(number, ".") + 1
		if want := depth + offset; h.Level != want {
			diags = append(diags, r.Diag(h.Line, fmt.Sprintf("Heading number %s implies level %d, found %d", number, want, h.Level)).
				WithSuggestion("Renumber the heading or change its level to "+strconv.Itoa(want)).
				WithContext(line).
				Build())
		}

		if space == "" && rest != "" {
			diags = append(diags, r.Diag(h.Line, fmt.Sprintf("Missing space after heading number %s", number+dot)).
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// unnumberedMarkerPattern matches the pandoc markers that exclude a heading
// from numbering, tolerating stray spaces so they can be reported.
var unnumberedMarkerPattern = regexp.MustCompile(`\{\s*-\s*\}|\{\s*\.unnumbered\s*\}`)

// UnnumberedMarkerRule checks the spelling of {-} and {.unnumbered}.
type UnnumberedMarkerRule struct {
	thesislint.BaseRule
}

// NewUnnumberedMarkerRule creates a new unnumbered marker rule.
func NewUnnumberedMarkerRule() *UnnumberedMarkerRule {
	return &UnnumberedMarkerRule{
		BaseRule: thesislint.NewBaseRule(
			"TM017",
			"unnumbered-marker",
			"Unnumbered heading markers are written \" {-}\" or \" {.unnumbered}\"",
			config.SeverityError,
			"headings", "structure",
		),
	}
}

// Apply inspects the marker on each ATX heading.
func (r *UnnumberedMarkerRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for _, h := range ctx.Doc.Headings {
		if !h.ATX {
			continue
		}
		line := ctx.Doc.Line(h.Line)
		loc := unnumberedMarkerPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		marker := line[loc[0]:loc[1]]

		if loc[0] == 0 || (line[loc[0]-1] != ' ' && line[loc[0]-1] != '\t') {
			diags = append(diags, r.Diag(h.Line, fmt.Sprintf("Missing space before %s", marker)).
				WithColumn(loc[0]+1).
				WithSuggestion("Write \"# Title {-}\"").
				WithContext(line).
				Build())
		}

		if marker != "{-}" && strings.Join(strings.Fields(marker), "") == "{-}" {
			diags = append(diags, r.Diag(h.Line, fmt.Sprintf("Spaces inside %s", marker)).
				WithColumn(loc[0]+1).
				WithSuggestion("Write the marker as {-}").
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// Keyword line grammar.
var (
	chineseKeywordsPattern = regexp.MustCompile(`^\*\*关键词[：:]\*\*(.*)$`)
	englishKeywordsPattern = regexp.MustCompile(`^\*\*Keywords[：:]\*\*(.*)$`)
)

// compactTitle removes ASCII and ideographic spaces, so "摘  要" reads as "摘要".
func compactTitle(text string) string {
	return strings.NewReplacer(" ", "", "　", "").Replace(headingTitle(text))
}

// AbstractSectionsRule checks that the main document carries both abstracts
// with their keyword lines.
type AbstractSectionsRule struct {
	thesislint.BaseRule
}

// NewAbstractSectionsRule creates a new abstract sections rule.
func NewAbstractSectionsRule() *AbstractSectionsRule {
	return &AbstractSectionsRule{
		BaseRule: thesislint.NewBaseRule(
			"TM018",
			"abstract-sections",
			"Main document has a Chinese and an English abstract, each with a keywords line",
			config.SeverityWarning,
			"structure", "abstract",
		),
	}
}

// Apply looks for the abstract headings and keyword lines.
//
// Options:
//   - main_only: only check documents with front matter (default true)
//   - window: lines after the abstract heading searched for keywords (default 50)
func (r *AbstractSectionsRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	if ctx.OptionBool("main_only", true) && doc.FrontMatter == nil {
		return nil, nil
	}

	var sections []thesislint.Heading
	for _, h := range doc.Headings {
		if h.Level == 2 {
			sections = append(sections, h)
		}
	}
	if len(sections) == 0 {
		return []thesislint.Diagnostic{
			r.Diag(0, "No level-2 headings; the abstracts are missing").
				WithSuggestion("Add \"## 摘要\" and \"## ABSTRACT\" sections").
				Build(),
		}, nil
	}

	var diags []thesislint.Diagnostic

	chinese := -1
	english := false
	for i, h := range sections {
		title := compactTitle(h.Text)
		if chinese < 0 && strings.Contains(title, "摘要") {
			chinese = i
		}
		if strings.Contains(strings.ToUpper(title), "ABSTRACT") {
			english = true
		}
	}

	switch {
	case chinese < 0:
		diags = append(diags, r.Diag(0, "No Chinese abstract heading (## 摘要)").Build())
	case chinese > 0:
		first := sections[0]
		diags = append(diags, r.Diag(first.Line,
			fmt.Sprintf("First level-2 heading is %q; the abstract (摘要) usually comes first", headingTitle(first.Text))).
			WithContext(doc.Line(first.Line)).
			Build())
	}

	if chinese >= 0 {
		start := sections[chinese].Line
		window := ctx.OptionInt("window", 50)
		found := false
		for n, line := range doc.TextLines() {
			if n > start && n <= start+window && chineseKeywordsPattern.MatchString(strings.TrimSpace(line)) {
				found = true
				break
			}
		}
		if !found {
			diags = append(diags, r.Diag(start, "No **关键词：** line after the Chinese abstract").
				WithContext(doc.Line(start)).
				Build())
		}
	}

	if !english {
		diags = append(diags, r.Diag(0, "No English abstract heading (## ABSTRACT)").Build())
	}

	hasEnglishKeywords := false
	for _, line := range doc.TextLines() {
		if englishKeywordsPattern.MatchString(strings.TrimSpace(line)) {
			hasEnglishKeywords = true
			break
		}
	}
	if !hasEnglishKeywords {
		diags = append(diags, r.Diag(0, "No **Keywords:** line for the English abstract").Build())
	}

	return diags, nil
}

// KeywordFormatRule checks separators and punctuation on keyword lines.
type KeywordFormatRule struct {
	thesislint.BaseRule
}

// NewKeywordFormatRule creates a new keyword format rule.
func NewKeywordFormatRule() *KeywordFormatRule {
	return &KeywordFormatRule{
		BaseRule: thesislint.NewBaseRule(
			"TM019",
			"keyword-format",
			"Chinese keywords are separated by \"；\", English keywords by \";\"",
			config.SeverityWarning,
			"abstract", "typography", "cjk",
		),
	}
}

// keywordStyle describes the conventions of one keyword line.
type keywordStyle struct {
	language  string
	separator string
	wrong     []string
}

//nolint:gochecknoglobals // Read-only lookup table.
var (
	chineseKeywords = keywordStyle{language: "Chinese", separator: "；", wrong: []string{",", "，", ";"}}
	englishKeywords = keywordStyle{language: "English", separator: ";", wrong: []string{",", "；"}}
)

// Apply checks each keywords line.
//
// Options:
//   - min_keywords: fewest Chinese keywords (default 3)
//   - max_keywords: most Chinese keywords (default 8)
func (r *KeywordFormatRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	minKeywords := ctx.OptionInt("min_keywords", 3)
	maxKeywords := ctx.OptionInt("max_keywords", 8)

	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		trimmed := strings.TrimSpace(line)

		style := chineseKeywords
		m := chineseKeywordsPattern.FindStringSubmatch(trimmed)
		if m == nil {
			style = englishKeywords
			m = englishKeywordsPattern.FindStringSubmatch(trimmed)
		}
		if m == nil {
			continue
		}

		raw := m[1]
		keywords := strings.TrimSpace(raw)

		if keywords != "" && strings.TrimLeft(raw, " 　") != raw {
			diags = append(diags, r.Diag(n, fmt.Sprintf("Space before the %s keywords", style.language)).
				WithSuggestion("Start the keywords right after the closing **").
				WithContext(line).
				Build())
		}

		for _, sep := range style.wrong {
			if strings.Contains(keywords, sep) {
				diags = append(diags, r.Diag(n, fmt.Sprintf("%s keywords separated by %q", style.language, sep)).
					WithSuggestion(fmt.Sprintf("Separate keywords with %q", style.separator)).
					WithContext(line).
					Build())
				break
			}
		}

		if last, ok := lastRune(keywords); ok && strings.ContainsRune("。.；;,，", last) {
			diags = append(diags, r.Diag(n, "Punctuation after the last keyword").
				WithSuggestion(fmt.Sprintf("Remove the trailing %q", last)).
				WithContext(line).
				Build())
		}

		if style.language != chineseKeywords.language {
			continue
		}
		count := len(splitKeywords(keywords))
		if count < minKeywords || count > maxKeywords {
			diags = append(diags, r.Diag(n, fmt.Sprintf("%d keywords, expected %d to %d", count, minKeywords, maxKeywords)).
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// splitKeywords splits on every separator a writer might have used.
func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune("；;，,。.", r)
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	runes := []rune(s)
	return runes[len(runes)-1], true
}

// AbstractHeadingCaseRule checks that the English abstract heading is upper case.
type AbstractHeadingCaseRule struct {
	thesislint.BaseRule
}

// NewAbstractHeadingCaseRule creates a new abstract heading case rule.
func NewAbstractHeadingCaseRule() *AbstractHeadingCaseRule {
	return &AbstractHeadingCaseRule{
		BaseRule: thesislint.NewBaseRule(
			"TM020",
			"abstract-heading-case",
			"The English abstract heading reads ABSTRACT",
			config.SeverityInfo,
			"abstract", "headings",
		),
	}
}

// Apply checks level-2 headings that mention the abstract.
func (r *AbstractHeadingCaseRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for _, h := range ctx.Doc.Headings {
		title := headingTitle(h.Text)
		if h.Level != 2 || !strings.Contains(strings.ToLower(title), "abstract") || title == "ABSTRACT" {
			continue
		}
		diags = append(diags, r.Diag(h.Line, fmt.Sprintf("English abstract heading is %q", title)).
			WithSuggestion("Write the heading as \"ABSTRACT\"").
			WithContext(ctx.Doc.Line(h.Line)).
			Build())
	}

	return diags, nil
}

// ChapterCountRule checks that the main document has enough top-level
// headings to hold the title pages, contents and chapters.
type ChapterCountRule struct {
	thesislint.BaseRule
}

// NewChapterCountRule creates a new chapter count rule.
func NewChapterCountRule() *ChapterCountRule {
	return &ChapterCountRule{
		BaseRule: thesislint.NewBaseRule(
			"TM021",
			"chapter-count",
			"Main document has enough level-1 headings for its chapters",
			config.SeverityWarning,
			"structure",
		),
	}
}

// Apply counts level-1 headings.
//
// Options:
//   - main_only: only check documents with front matter (default true)
//   - min: fewest level-1 headings (default 4)
func (r *ChapterCountRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	if ctx.OptionBool("main_only", true) && doc.FrontMatter == nil {
		return nil, nil
	}

	count := 0
	for _, h := range doc.Headings {
		if h.Level == 1 {
			count++
		}
	}

	minChapters := ctx.OptionInt("min", 4)
	if count >= minChapters {
		return nil, nil
	}
	return []thesislint.Diagnostic{
		r.Diag(0, fmt.Sprintf("Only %d level-1 headings, expected at least %d", count, minChapters)).
			WithSuggestion("Title pages, the table of contents and each chapter start with a level-1 heading").
			Build(),
	}, nil
}
