package xref

import (
	"regexp"
	"strings"
)

// openFigurePattern matches an image whose attribute block is still open at end of line.
var openFigurePattern = regexp.MustCompile(`!\[[^\]]+\]\([^)]+\)\{[^}]*$`)

// Normalize merges figure attribute blocks that span several physical lines
// into one logical line.
//
// A line is open when it ends inside an image attribute block. The following
// lines are trimmed and appended, separated by a single space, up to and
// including the first line that contains "}". Other lines pass through as is.
// The second return value holds the 1-based output line numbers of merges
// that reached end of input without a closing brace.
func Normalize(lines []string) ([]string, []int) {
	out, _, unterminated := normalize(lines)
	return out, unterminated
}

// normalize is Normalize that also reports, for every output line, the
// 1-based input line it starts on.
func normalize(lines []string) (out []string, origins []int, unterminated []int) {
	out = make([]string, 0, len(lines))
	origins = make([]int, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		body, cr := splitCR(line)
		trimmed := strings.TrimRight(body, " \t")
		if !openFigurePattern.MatchString(trimmed) {
			out = append(out, line)
			origins = append(origins, i+1)
			continue
		}
		start := i + 1

		var builder strings.Builder
		builder.WriteString(trimmed)

		closed := false
		for i+1 < len(lines) {
			i++
			next := strings.TrimSpace(lines[i])
			builder.WriteByte(' ')
			builder.WriteString(next)
			if strings.Contains(next, "}") {
				closed = true
				break
			}
		}

		out = append(out, builder.String()+cr)
		origins = append(origins, start)
		if !closed {
			unterminated = append(unterminated, len(out))
		}
	}

	return out, origins, unterminated
}

// splitCR separates a trailing carriage return from line.
func splitCR(line string) (string, string) {
	if body, ok := strings.CutSuffix(line, "\r"); ok {
		return body, "\r"
	}
	return line, ""
}
