package xref

import (
	"regexp"
	"strings"
)

// Definition and reference grammars.
var (
	imagePattern   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	tablePattern   = regexp.MustCompile(`^(\s*Table:\s+)([^{]*)`)
	fencePattern   = regexp.MustCompile("^(\\s*```+)([^{`]*?)\\s*\\{([^}]*)\\}")
	captionPattern = regexp.MustCompile(`caption=["']([^"'}]+)["']`)
)

// figureMatch is a recognized image definition.
type figureMatch struct {
	Label string
	Path  string

	// ImageEnd is the byte offset just past the closing parenthesis.
	ImageEnd int

	// HasAttrs is true when an attribute block follows the image directly.
	HasAttrs bool

	// Attrs is the attribute block content without braces.
	Attrs string

	// AttrsEnd is the byte offset just past the closing brace.
	AttrsEnd int
}

// matchFigure recognizes the first image on line with a non-blank label.
// Images followed by an unterminated attribute block are not definitions.
func matchFigure(line string) (figureMatch, bool) {
	for _, loc := range imagePattern.FindAllStringSubmatchIndex(line, -1) {
		label := strings.TrimSpace(line[loc[2]:loc[3]])
		if label == "" {
			continue
		}

		match := figureMatch{
			Label:    label,
			Path:     line[loc[4]:loc[5]],
			ImageEnd: loc[1],
		}

		rest := line[loc[1]:]
		if strings.HasPrefix(rest, "{") && !opensPlaceholder(rest) {
			closeIdx := strings.IndexByte(rest, '}')
			if closeIdx < 0 {
				continue
			}
			match.HasAttrs = true
			match.Attrs = rest[1:closeIdx]
			match.AttrsEnd = loc[1] + closeIdx + 1
		}

		return match, true
	}

	return figureMatch{}, false
}

// opensPlaceholder reports whether s starts with the two opening braces of
// a reference placeholder rather than an attribute block.
func opensPlaceholder(s string) bool {
	return strings.HasPrefix(s, "{{") || strings.HasPrefix(s, "{｛")
}

// tableMatch is a recognized table caption line.
type tableMatch struct {
	Label string

	// LabelEnd is the byte offset just past the trimmed label text.
	LabelEnd int
}

// matchTable recognizes "Table: label" at the start of line. The label runs
// to the first "{" or end of line.
func matchTable(line string) (tableMatch, bool) {
	loc := tablePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return tableMatch{}, false
	}

	raw := line[loc[4]:loc[5]]
	label := strings.TrimSpace(raw)
	if label == "" {
		return tableMatch{}, false
	}

	return tableMatch{
		Label:    label,
		LabelEnd: loc[4] + len(strings.TrimRightFunc(raw, isSpace)),
	}, true
}

// listingMatch is a recognized code fence with a caption attribute.
type listingMatch struct {
	Label string
	Lang  string
	Attrs string

	// AttrsStart is the byte offset of the first rune inside the braces.
	AttrsStart int

	// AttrsEnd is the byte offset of the closing brace.
	AttrsEnd int
}

// matchListing recognizes an opening code fence followed by an attribute
// block that carries caption="label".
func matchListing(line string) (listingMatch, bool) {
	loc := fencePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return listingMatch{}, false
	}

	attrs := line[loc[6]:loc[7]]
	caption := captionPattern.FindStringSubmatch(attrs)
	if caption == nil {
		return listingMatch{}, false
	}

	label := strings.TrimSpace(caption[1])
	if label == "" {
		return listingMatch{}, false
	}

	return listingMatch{
		Label:      label,
		Lang:       strings.TrimSpace(line[loc[4]:loc[5]]),
		Attrs:      attrs,
		AttrsStart: loc[6],
		AttrsEnd:   loc[7],
	}, true
}

// reference is one placeholder occurrence inside a line.
type reference struct {
	Kind    Kind
	RawName string
	Start   int
	End     int
}

// referenceMatcher finds {{kind:name}} placeholders for a token set.
type referenceMatcher struct {
	tokens  Tokens
	pattern *regexp.Regexp
}

// newReferenceMatcher compiles the placeholder grammar for tokens. Opening and
// closing braces may be ASCII or fullwidth in any mix, as may the colon.
func newReferenceMatcher(tokens Tokens) *referenceMatcher {
	words := tokens.Words()
	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = regexp.QuoteMeta(word)
	}

	expr := `(?i)[{｛][{｛](` + strings.Join(quoted, "|") + `)[:：]([^}｝]+)[}｝][}｝]`

	return &referenceMatcher{
		tokens:  tokens,
		pattern: regexp.MustCompile(expr),
	}
}

// find returns the placeholders in line, left to right.
func (m *referenceMatcher) find(line string) []reference {
	locs := m.pattern.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}

	refs := make([]reference, 0, len(locs))
	for _, loc := range locs {
		kind, ok := m.tokens.Parse(line[loc[2]:loc[3]])
		if !ok {
			continue
		}
		refs = append(refs, reference{
			Kind:    kind,
			RawName: strings.TrimSpace(line[loc[4]:loc[5]]),
			Start:   loc[0],
			End:     loc[1],
		})
	}

	return refs
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\v'
}
