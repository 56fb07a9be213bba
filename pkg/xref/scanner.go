package xref

import "strings"

// Skipped is a definition left alone because it already carries an identifier.
type Skipped struct {
	Kind  Kind
	Label string
	Line  int
}

// Collision is a definition whose canonical name was already registered.
type Collision struct {
	// Occurrence is the new definition.
	Occurrence Occurrence

	// First is the earliest definition under the same name.
	First Occurrence
}

// Collapsed reports whether the two labels differ as written and only met
// through sanitization.
func (c Collision) Collapsed() bool {
	return c.Occurrence.Label != c.First.Label
}

// ScanResult is the output of the definition pass.
type ScanResult struct {
	// Lines is the annotated document.
	Lines []string

	// Defined lists new definitions in line order.
	Defined []Occurrence

	// Skipped lists definitions that already had an identifier.
	Skipped []Skipped

	// Collisions lists definitions that reused a canonical name.
	Collisions []Collision
}

// Scan runs the definition pass. Each line contributes at most one
// definition: figures are tried first, then table captions, then listings.
// New definitions are registered in reg and their identifiers written into
// the returned lines.
func Scan(lines []string, reg *Registry, san Sanitizer) *ScanResult {
	result := &ScanResult{Lines: make([]string, len(lines))}

	for i, line := range lines {
		lineNum := i + 1
		result.Lines[i] = line

		kind, label, rewrite, ok := recognize(line, reg.Tokens())
		if !ok {
			continue
		}
		if rewrite == nil {
			result.Skipped = append(result.Skipped, Skipped{Kind: kind, Label: label, Line: lineNum})
			continue
		}

		occ := reg.Define(kind, san.Sanitize(label), label, lineNum)
		result.Lines[i] = rewrite(occ.ID)
		result.Defined = append(result.Defined, occ)

		if occ.Seq > 1 {
			result.Collisions = append(result.Collisions, Collision{
				Occurrence: occ,
				First:      reg.Lookup(kind, occ.Name)[0],
			})
		}
	}

	return result
}

// rewriteFunc produces the annotated line for a generated identifier.
type rewriteFunc func(id string) string

// recognize finds the definition on line. A nil rewrite with ok set means the
// definition is already marked.
func recognize(line string, tokens Tokens) (Kind, string, rewriteFunc, bool) {
	if m, ok := matchFigure(line); ok {
		return Figure, m.Label, figureRewrite(line, m, tokens.marker(Figure)), true
	}
	if m, ok := matchTable(line); ok {
		return Table, m.Label, tableRewrite(line, m, tokens.marker(Table)), true
	}
	if m, ok := matchListing(line); ok {
		return Listing, m.Label, listingRewrite(line, m, tokens.marker(Listing)), true
	}
	return 0, "", nil, false
}

// figureRewrite places the identifier first inside the image attribute block,
// creating the block when there is none.
func figureRewrite(line string, m figureMatch, marker string) rewriteFunc {
	if !m.HasAttrs {
		if strings.Contains(line, marker) {
			return nil
		}
		return func(id string) string {
			return line[:m.ImageEnd] + "{#" + id + "}" + line[m.ImageEnd:]
		}
	}

	if strings.Contains(m.Attrs, marker) {
		return nil
	}
	return func(id string) string {
		return line[:m.ImageEnd] + "{" + prependAttr("#"+id, m.Attrs) + "}" + line[m.AttrsEnd:]
	}
}

// tableRewrite appends a trailing {#id} block right after the caption text.
func tableRewrite(line string, m tableMatch, marker string) rewriteFunc {
	if strings.Contains(line, marker) {
		return nil
	}
	return func(id string) string {
		return line[:m.LabelEnd] + " {#" + id + "}" + line[m.LabelEnd:]
	}
}

// listingRewrite places the identifier first inside the fence attribute block.
func listingRewrite(line string, m listingMatch, marker string) rewriteFunc {
	if strings.Contains(m.Attrs, marker) {
		return nil
	}
	return func(id string) string {
		return line[:m.AttrsStart] + prependAttr("#"+id, m.Attrs) + line[m.AttrsEnd:]
	}
}

// prependAttr puts attr in front of an attribute list, separated by one space.
func prependAttr(attr, attrs string) string {
	rest := strings.TrimLeft(attrs, " \t")
	if rest == "" {
		return attr
	}
	return attr + " " + rest
}
