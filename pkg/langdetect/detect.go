// Package langdetect guesses the language of an untagged listing so the
// linter can suggest a fence tag. Detection is heuristic: obvious markers are
// checked first and go-enry's classifier is consulted only as a fallback.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language could be determined with confidence.
const Unknown = ""

// candidates restricts the classifier to languages common in theses.
//
//nolint:gochecknoglobals // Read-only lookup table.
var candidates = []string{
	"Python", "Java", "C", "C++", "MATLAB", "R", "Go", "JavaScript",
	"Shell", "SQL", "JSON", "YAML", "XML", "TeX",
}

// marker pairs a pattern with the fence tag it implies.
type marker struct {
	lang    string
	pattern *regexp.Regexp
}

// markers are checked in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markers = []marker{
	{"go", regexp.MustCompile(`(?m)^package\s+\w+\s*$`)},
	{"java", regexp.MustCompile(`\bpublic\s+(static\s+)?(class|void)\b|System\.out\.print`)},
	{"cpp", regexp.MustCompile(`#include\s*<(iostream|vector|string|map)>|std::`)},
	{"c", regexp.MustCompile(`#include\s*[<"][\w/]+\.h[>"]`)},
	{"python", regexp.MustCompile(`(?m)^\s*(def|class)\s+\w+.*:\s*$|^\s*(import|from)\s+[\w.]+|__name__`)},
	{"matlab", regexp.MustCompile(`(?m)^\s*function\s+.*=\s*\w+\(|^\s*(clc|clear all|figure;)`)},
	{"r", regexp.MustCompile(`<-\s*(c|function|data\.frame)\(|library\(\w+\)`)},
	{"latex", regexp.MustCompile(`\\(begin|end)\{\w+\}|\\documentclass`)},
	{"sql", regexp.MustCompile(`(?i)^\s*(select|insert\s+into|update|delete\s+from|create\s+table)\s`)},
	{"javascript", regexp.MustCompile(`console\.log|=>\s*\{|\bfunction\s*\(`)},
}

// Detect returns a fence tag for content, or Unknown.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectStructured(trimmed); lang != Unknown {
		return lang
	}

	for _, m := range markers {
		if m.pattern.Match(content) {
			return m.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

// detectStructured recognizes data formats whose first character is telling.
func detectStructured(trimmed []byte) string {
	switch trimmed[0] {
	case '{', '[':
		if bytes.Contains(trimmed, []byte(`":`)) {
			return "json"
		}
	case '<':
		if bytes.HasPrefix(trimmed, []byte("<?xml")) {
			return "xml"
		}
		if bytes.Contains(bytes.ToLower(trimmed), []byte("<html")) {
			return "html"
		}
	}
	return Unknown
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "TeX":
		return "latex"
	default:
		return strings.ToLower(lang)
	}
}
