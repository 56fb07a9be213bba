package xref

import (
	"cmp"
	"fmt"
	"slices"
)

// Occurrence is one registered definition.
type Occurrence struct {
	// Kind is the element kind.
	Kind Kind

	// Name is the canonical name the definition is keyed by.
	Name string

	// Label is the label as written in the document.
	Label string

	// Line is the 1-based line number in the normalized document.
	Line int

	// Seq is the 1-based position among definitions sharing Kind and Name.
	Seq int

	// ID is the full identifier, e.g. "fig:id_Overview_2".
	ID string
}

// Duplicate summarizes a canonical name defined more than once.
type Duplicate struct {
	Kind   Kind
	Name   string
	Labels []string
	Lines  []int
	IDs    []string
}

// Count returns the number of definitions sharing the name.
func (d Duplicate) Count() int {
	return len(d.Lines)
}

// bucketKey identifies a registry bucket.
type bucketKey struct {
	kind Kind
	name string
}

// Registry stores definitions for a single document.
//
// Occurrences are appended in scan order and never removed, so sequence
// numbers inside a bucket are contiguous from 1 and lines are ascending.
// A Registry must not be shared between documents.
type Registry struct {
	tokens  Tokens
	buckets map[bucketKey][]Occurrence
	all     []Occurrence
	counts  [kindCount]int
}

// NewRegistry creates an empty Registry that formats IDs with tokens.
func NewRegistry(tokens Tokens) *Registry {
	return &Registry{
		tokens:  tokens.withDefaults(),
		buckets: make(map[bucketKey][]Occurrence),
	}
}

// Tokens returns the identifier tokens used by the registry.
func (r *Registry) Tokens() Tokens {
	return r.tokens
}

// Define registers a new occurrence of (kind, name) found at line and returns it.
// The name must already be canonical.
func (r *Registry) Define(kind Kind, name, label string, line int) Occurrence {
	key := bucketKey{kind: kind, name: name}
	seq := len(r.buckets[key]) + 1

	occ := Occurrence{
		Kind:  kind,
		Name:  name,
		Label: label,
		Line:  line,
		Seq:   seq,
		ID:    FormatID(r.tokens.Of(kind), name, seq),
	}

	r.buckets[key] = append(r.buckets[key], occ)
	r.all = append(r.all, occ)
	r.counts[kind]++

	return occ
}

// FormatID builds a full identifier from its parts.
func FormatID(token, name string, seq int) string {
	return fmt.Sprintf("%s:%s_%d", token, name, seq)
}

// Lookup returns the occurrences of (kind, name) in scan order.
func (r *Registry) Lookup(kind Kind, name string) []Occurrence {
	return slices.Clone(r.buckets[bucketKey{kind: kind, name: name}])
}

// Has reports whether any definition of (kind, name) exists.
func (r *Registry) Has(kind Kind, name string) bool {
	return len(r.buckets[bucketKey{kind: kind, name: name}]) > 0
}

// Nearest picks the definition of (kind, name) closest to a reference at line.
//
// A single definition is returned as is. With several, the closest definition
// above the reference wins; when none precede it, the closest one below is
// used. The boolean is false when nothing is registered under the name.
func (r *Registry) Nearest(kind Kind, name string, line int) (Occurrence, bool) {
	defs := r.buckets[bucketKey{kind: kind, name: name}]
	switch len(defs) {
	case 0:
		return Occurrence{}, false
	case 1:
		return defs[0], true
	}

	before, after := -1, -1
	for i, def := range defs {
		switch {
		case def.Line < line:
			if before < 0 || def.Line > defs[before].Line {
				before = i
			}
		case def.Line > line:
			if after < 0 || def.Line < defs[after].Line {
				after = i
			}
		}
	}

	if before >= 0 {
		return defs[before], true
	}
	if after >= 0 {
		return defs[after], true
	}
	return Occurrence{}, false
}

// Count returns the number of definitions of kind.
func (r *Registry) Count(kind Kind) int {
	if !kind.Valid() {
		return 0
	}
	return r.counts[kind]
}

// Len returns the total number of definitions.
func (r *Registry) Len() int {
	return len(r.all)
}

// Occurrences returns every definition in scan order.
func (r *Registry) Occurrences() []Occurrence {
	return slices.Clone(r.all)
}

// Duplicates returns every (kind, name) with more than one definition,
// ordered by kind and then name.
func (r *Registry) Duplicates() []Duplicate {
	var dups []Duplicate
	for key, defs := range r.buckets {
		if len(defs) < 2 {
			continue
		}
		dup := Duplicate{Kind: key.kind, Name: key.name}
		for _, def := range defs {
			dup.Labels = append(dup.Labels, def.Label)
			dup.Lines = append(dup.Lines, def.Line)
			dup.IDs = append(dup.IDs, def.ID)
		}
		dups = append(dups, dup)
	}

	slices.SortFunc(dups, func(a, b Duplicate) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return dups
}
