package rules

import (
	"os"
	"regexp"
	"strings"

	"github.com/yaklabco/thesismd/pkg/thesislint"
	"github.com/yaklabco/thesismd/pkg/xref"
)

// imagePattern captures the alt text and destination of an inline image.
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// image is one inline image occurrence.
type image struct {
	Alt    string
	Dest   string
	Column int
}

// findImages returns the images on a line.
func findImages(line string) []image {
	var images []image
	for _, m := range imagePattern.FindAllStringSubmatchIndex(line, -1) {
		images = append(images, image{
			Alt:    line[m[2]:m[3]],
			Dest:   line[m[4]:m[5]],
			Column: m[0] + 1,
		})
	}
	return images
}

// imagePath strips an optional title and angle brackets from a destination.
func imagePath(dest string) string {
	dest = strings.TrimSpace(dest)
	if strings.HasPrefix(dest, "<") {
		if end := strings.IndexByte(dest, '>'); end > 0 {
			return dest[1:end]
		}
	}
	if fields := strings.Fields(dest); len(fields) > 0 {
		return fields[0]
	}
	return dest
}

// isRemote reports whether a destination points outside the file system.
func isRemote(path string) bool {
	return strings.Contains(path, "://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "#")
}

// processor builds a cross-reference processor from the lint configuration.
func processor(ctx *thesislint.RuleContext) *xref.Processor {
	return xref.NewProcessor(xref.OptionsFromConfig(ctx.Config.Xref))
}

// nextNonBlank returns the first non-blank line after n, or 0.
func nextNonBlank(doc *thesislint.Document, n int) int {
	for i := n + 1; i <= doc.LineCount(); i++ {
		if strings.TrimSpace(doc.Line(i)) != "" {
			return i
		}
	}
	return 0
}

// prevNonBlank returns the last non-blank line before n, or 0.
func prevNonBlank(doc *thesislint.Document, n int) int {
	for i := n - 1; i >= 1; i-- {
		if strings.TrimSpace(doc.Line(i)) != "" {
			return i
		}
	}
	return 0
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// maskCodeSpans blanks the contents of inline code spans so they are not
// read as markup. Byte offsets are preserved.
func maskCodeSpans(line string) string {
	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}
		run := i
		for run < len(b) && b[run] == '`' {
			run++
		}
		width := run - i
		end := strings.Index(line[run:], strings.Repeat("`", width))
		if end < 0 {
			i = run
			continue
		}
		for j := run; j < run+end; j++ {
			b[j] = ' '
		}
		i = run + end + width
	}
	return string(b)
}

// listItemPattern matches bullet and ordered list markers.
var listItemPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s`)
