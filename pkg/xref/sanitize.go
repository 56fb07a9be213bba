package xref

import "strings"

// Default sanitizer settings.
const (
	DefaultPrefix   = "id_"
	DefaultFallback = "unnamed"
)

// cjkFirst and cjkLast bound the CJK Unified Ideographs block kept by the sanitizer.
const (
	cjkFirst = '\u4e00'
	cjkLast  = '\u9fff'
)

// Sanitizer turns free-form labels into canonical identifier fragments.
type Sanitizer struct {
	// Prefix is prepended to every canonical name.
	Prefix string

	// Fallback replaces labels that contain no allowed characters.
	Fallback string
}

// NewSanitizer returns a Sanitizer, substituting defaults for empty settings.
func NewSanitizer(prefix, fallback string) Sanitizer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if fallback == "" {
		fallback = DefaultFallback
	}
	return Sanitizer{Prefix: prefix, Fallback: fallback}
}

// Sanitize returns the canonical name for label.
//
// Digits, ASCII letters and CJK ideographs are kept; every other rune becomes
// an underscore, runs of underscores collapse and edge underscores are
// trimmed. The prefix is added on every call, so a canonical name must never
// be sanitized a second time.
func (s Sanitizer) Sanitize(label string) string {
	var builder strings.Builder
	builder.Grow(len(label))

	underscore := false
	for _, r := range label {
		if IsNameRune(r) {
			builder.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			builder.WriteByte('_')
			underscore = true
		}
	}

	cleaned := strings.Trim(builder.String(), "_")
	if cleaned == "" {
		cleaned = s.Fallback
	}

	return s.Prefix + cleaned
}

// IsNameRune reports whether r survives sanitization unchanged.
func IsNameRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= cjkFirst && r <= cjkLast:
		return true
	default:
		return false
	}
}
