// Package xref resolves figure, table and listing cross-references in thesis
// Markdown. Definitions receive stable pandoc-crossref identifiers in a first
// pass; {{kind:Name}} placeholders are rewritten to citation tokens in a second.
package xref

import (
	"slices"
	"strings"
)

// Kind is the element kind of a definition or reference.
type Kind int

const (
	// Figure is an image definition: ![label](path){attrs}.
	Figure Kind = iota

	// Table is a table caption line: Table: label.
	Table

	// Listing is a fenced code block carrying a caption attribute.
	Listing
)

// kindCount is the number of element kinds.
const kindCount = 3

// Kinds returns every element kind in declaration order.
func Kinds() []Kind {
	return []Kind{Figure, Table, Listing}
}

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Figure:
		return "figure"
	case Table:
		return "table"
	case Listing:
		return "listing"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case Figure, Table, Listing:
		return true
	default:
		return false
	}
}

// Default identifier tokens, matching the pandoc-crossref prefixes.
const (
	DefaultFigureToken  = "fig"
	DefaultTableToken   = "tbl"
	DefaultListingToken = "lst"
)

// Tokens holds the identifier token used for each kind in generated IDs
// (the "fig" in "#fig:id_Overview_1").
type Tokens struct {
	Figure  string
	Table   string
	Listing string
}

// DefaultTokens returns the pandoc-crossref token set.
func DefaultTokens() Tokens {
	return Tokens{
		Figure:  DefaultFigureToken,
		Table:   DefaultTableToken,
		Listing: DefaultListingToken,
	}
}

// Of returns the token configured for kind.
func (t Tokens) Of(kind Kind) string {
	switch kind {
	case Figure:
		return t.Figure
	case Table:
		return t.Table
	case Listing:
		return t.Listing
	default:
		return ""
	}
}

// withDefaults fills empty tokens from DefaultTokens.
func (t Tokens) withDefaults() Tokens {
	def := DefaultTokens()
	if t.Figure == "" {
		t.Figure = def.Figure
	}
	if t.Table == "" {
		t.Table = def.Table
	}
	if t.Listing == "" {
		t.Listing = def.Listing
	}
	return t
}

// Parse maps a placeholder kind word to a Kind. Both the canonical name
// ("figure") and the configured token ("fig") are accepted, case-insensitively.
func (t Tokens) Parse(word string) (Kind, bool) {
	for _, kind := range Kinds() {
		if strings.EqualFold(word, kind.String()) || strings.EqualFold(word, t.Of(kind)) {
			return kind, true
		}
	}
	return 0, false
}

// Words returns every accepted placeholder kind word in lower case,
// longest first.
func (t Tokens) Words() []string {
	seen := make(map[string]struct{}, 2*kindCount)
	var words []string
	for _, kind := range Kinds() {
		for _, word := range []string{kind.String(), t.Of(kind)} {
			lower := strings.ToLower(word)
			if _, ok := seen[lower]; ok || lower == "" {
				continue
			}
			seen[lower] = struct{}{}
			words = append(words, lower)
		}
	}
	sortLongestFirst(words)
	return words
}

// marker returns the id marker prefix for kind, e.g. "#fig:".
func (t Tokens) marker(kind Kind) string {
	return "#" + t.Of(kind) + ":"
}

// sortLongestFirst orders words by descending length, then lexically.
func sortLongestFirst(words []string) {
	slices.SortFunc(words, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
}
