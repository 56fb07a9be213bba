package xref

import "strings"

// Direction describes how a reference was matched to its definition.
type Direction string

const (
	// DirectionUnique means the name has a single definition.
	DirectionUnique Direction = "unique"

	// DirectionBackward means the closest preceding definition was chosen.
	DirectionBackward Direction = "backward"

	// DirectionForward means no definition precedes the reference and the
	// closest following one was chosen.
	DirectionForward Direction = "forward"
)

// Resolution is a placeholder rewritten to a citation token.
type Resolution struct {
	Kind       Kind
	RawName    string
	Line       int
	Target     Occurrence
	Direction  Direction
	Candidates int
}

// Distance returns the line distance between reference and definition.
func (r Resolution) Distance() int {
	if r.Target.Line > r.Line {
		return r.Target.Line - r.Line
	}
	return r.Line - r.Target.Line
}

// Unresolved is a placeholder with no matching definition.
type Unresolved struct {
	Kind    Kind
	RawName string

	// Name is the canonical name that was looked up.
	Name string

	Line int

	// Text is the placeholder exactly as written.
	Text string
}

// ResolveResult is the output of the reference pass.
type ResolveResult struct {
	Lines      []string
	Resolved   []Resolution
	Unresolved []Unresolved
}

// Resolver rewrites placeholders against a completed Registry.
type Resolver struct {
	matcher   *referenceMatcher
	sanitizer Sanitizer
}

// NewResolver creates a Resolver for the given token set and sanitizer.
func NewResolver(tokens Tokens, san Sanitizer) *Resolver {
	return &Resolver{
		matcher:   newReferenceMatcher(tokens.withDefaults()),
		sanitizer: san,
	}
}

// Resolve runs the reference pass. The registry is only read, so every
// placeholder sees the same complete set of definitions regardless of where
// in the document it sits. Unresolved placeholders are kept verbatim.
func (r *Resolver) Resolve(lines []string, reg *Registry) *ResolveResult {
	result := &ResolveResult{Lines: make([]string, len(lines))}

	for i, line := range lines {
		result.Lines[i] = r.resolveLine(line, i+1, reg, result)
	}

	return result
}

func (r *Resolver) resolveLine(line string, lineNum int, reg *Registry, result *ResolveResult) string {
	refs := r.matcher.find(line)
	if len(refs) == 0 {
		return line
	}

	var builder strings.Builder
	builder.Grow(len(line) + 8*len(refs))

	last := 0
	for _, ref := range refs {
		name := r.sanitizer.Sanitize(ref.RawName)

		target, ok := reg.Nearest(ref.Kind, name, lineNum)
		if !ok {
			result.Unresolved = append(result.Unresolved, Unresolved{
				Kind:    ref.Kind,
				RawName: ref.RawName,
				Name:    name,
				Line:    lineNum,
				Text:    line[ref.Start:ref.End],
			})
			continue
		}

		candidates := len(reg.Lookup(ref.Kind, name))
		result.Resolved = append(result.Resolved, Resolution{
			Kind:       ref.Kind,
			RawName:    ref.RawName,
			Line:       lineNum,
			Target:     target,
			Direction:  direction(candidates, target.Line, lineNum),
			Candidates: candidates,
		})

		builder.WriteString(line[last:ref.Start])
		builder.WriteString(Citation(target.ID))
		last = ref.End
	}

	if last == 0 {
		return line
	}

	builder.WriteString(line[last:])
	return builder.String()
}

// Citation returns the inline citation token for id. It is always padded
// with one space on each side so it tokenizes next to any neighbor.
func Citation(id string) string {
	return " @" + id + " "
}

func direction(candidates, defLine, refLine int) Direction {
	switch {
	case candidates == 1:
		return DirectionUnique
	case defLine < refLine:
		return DirectionBackward
	default:
		return DirectionForward
	}
}
