package thesislint

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterDelimiter opens and closes the YAML block; pandoc also accepts
// "..." as the closing line.
const frontMatterDelimiter = "---"

// ErrFrontMatterNotMapping is recorded when the block is valid YAML but not a mapping.
var ErrFrontMatterNotMapping = errors.New("front matter is not a mapping")

// FrontMatter is the YAML metadata block at the top of a document.
type FrontMatter struct {
	// StartLine is the line of the opening delimiter (always 1).
	StartLine int

	// EndLine is the line of the closing delimiter, or 0 when unterminated.
	EndLine int

	// Fields holds the decoded top-level mapping.
	Fields map[string]any

	// Err is the YAML decoding error, if any.
	Err error

	keyLines map[string]int
}

// Terminated reports whether a closing delimiter was found.
func (fm *FrontMatter) Terminated() bool {
	return fm.EndLine > 0
}

// Contains reports whether line n lies within the block, delimiters included.
// An unterminated block covers nothing past its opening line.
func (fm *FrontMatter) Contains(n int) bool {
	if fm.EndLine == 0 {
		return n == fm.StartLine
	}
	return n >= fm.StartLine && n <= fm.EndLine
}

// KeyLine returns the document line of a top-level key, or 0.
func (fm *FrontMatter) KeyLine(key string) int {
	return fm.keyLines[key]
}

// String returns a scalar field as a string.
func (fm *FrontMatter) String(key string) (string, bool) {
	v, ok := fm.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Strings returns a field that may be written as a scalar or a list.
func (fm *FrontMatter) Strings(key string) []string {
	switch v := fm.Fields[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// parseFrontMatter decodes the block when the first line is "---".
func parseFrontMatter(lines []string) *FrontMatter {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return nil
	}

	fm := &FrontMatter{StartLine: 1, keyLines: make(map[string]int)}
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == frontMatterDelimiter || trimmed == "..." {
			fm.EndLine = i + 1
			break
		}
	}
	if !fm.Terminated() {
		return fm
	}

	body := strings.Join(lines[1:fm.EndLine-1], "\n")

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(body), &node); err != nil {
		fm.Err = err
		return fm
	}
	if len(node.Content) == 0 {
		return fm
	}

	mapping := node.Content[0]
	if mapping.Kind != yaml.MappingNode {
		fm.Err = ErrFrontMatterNotMapping
		return fm
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		// yaml lines are 1-based within body, which starts on document line 2.
		fm.keyLines[key.Value] = key.Line + 1
	}

	if err := mapping.Decode(&fm.Fields); err != nil {
		fm.Err = err
	}

	return fm
}
