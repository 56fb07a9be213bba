package thesislint

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a section heading found by the Markdown parser.
type Heading struct {
	Level int
	Text  string
	Line  int

	// ATX is true for "#"-style headings, false for setext underlines.
	ATX bool
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	// OpenLine is the line of the opening fence (first body line when indented).
	OpenLine int

	// CloseLine is the line of the closing fence, or 0 when the fence is
	// never closed or the block is indented.
	CloseLine int

	Fenced bool

	// Info is everything after the opening fence characters, trimmed.
	Info string

	// Language is the first word of Info unless Info starts with "{".
	Language string

	// Attrs is the text inside the first {...} of Info.
	Attrs    string
	HasAttrs bool

	Body []byte
}

// IsRaw reports whether the block is a pandoc raw block such as {=openxml}.
func (cb CodeBlock) IsRaw() bool {
	return cb.HasAttrs && strings.HasPrefix(strings.TrimSpace(cb.Attrs), "=")
}

// Document is a parsed thesis source file. Line numbers are 1-based.
type Document struct {
	Path    string
	Dir     string
	Content []byte

	FrontMatter *FrontMatter
	Headings    []Heading
	CodeBlocks  []CodeBlock

	lines []string
	code  []bool
}

// markdown is shared; goldmark parsers are safe for concurrent use.
//
//nolint:gochecknoglobals // Stateless parser instance.
var markdown = goldmark.New()

// ParseDocument splits content into lines, decodes the YAML front matter and
// walks the goldmark AST for headings and code blocks. Front matter lines are
// blanked before Markdown parsing so "---" is not read as a setext underline.
func ParseDocument(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := &Document{
		Path:    path,
		Dir:     filepath.Dir(path),
		Content: content,
		lines:   splitLines(content),
	}
	doc.code = make([]bool, len(doc.lines))
	doc.FrontMatter = parseFrontMatter(doc.lines)

	source := doc.maskedSource()
	root := markdown.Parser().Parse(text.NewReader(source))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	w := &walker{doc: doc, src: source, starts: lineStarts(source)}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	return doc, nil
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line n without its terminator, or "" when out of range.
func (d *Document) Line(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	return d.lines[n-1]
}

// InCode reports whether line n belongs to a code block, fences included.
func (d *Document) InCode(n int) bool {
	return n >= 1 && n <= len(d.code) && d.code[n-1]
}

// InFrontMatter reports whether line n is part of the front matter block.
func (d *Document) InFrontMatter(n int) bool {
	return d.FrontMatter != nil && d.FrontMatter.Contains(n)
}

// TextLines yields the lines that are neither code nor front matter.
func (d *Document) TextLines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, line := range d.lines {
			n := i + 1
			if d.code[i] || d.InFrontMatter(n) {
				continue
			}
			if !yield(n, line) {
				return
			}
		}
	}
}

// ResolvePath interprets a path written in the document relative to the
// document's directory.
func (d *Document) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Dir, filepath.FromSlash(p))
}

// maskedSource returns the content with front matter lines emptied.
func (d *Document) maskedSource() []byte {
	if d.FrontMatter == nil {
		return d.Content
	}

	var buf bytes.Buffer
	buf.Grow(len(d.Content))
	for i, line := range d.lines {
		if !d.FrontMatter.Contains(i + 1) {
			buf.WriteString(line)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

type walker struct {
	doc    *Document
	src    []byte
	starts []int
}

// lineOf maps a byte offset to its 1-based line.
func (w *walker) lineOf(offset int) int {
	return sort.SearchInts(w.starts, offset+1)
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node)
	case *ast.FencedCodeBlock:
		w.fenced(node)
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		w.indented(node)
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (w *walker) heading(h *ast.Heading) {
	if h.Lines().Len() == 0 {
		return
	}
	line := w.lineOf(h.Lines().At(0).Start)
	w.doc.Headings = append(w.doc.Headings, Heading{
		Level: h.Level,
		Text:  strings.TrimSpace(inlineText(h, w.src)),
		Line:  line,
		ATX:   strings.HasPrefix(strings.TrimSpace(w.doc.Line(line)), "#"),
	})
}

func (w *walker) fenced(fb *ast.FencedCodeBlock) {
	var open int
	switch {
	case fb.Info != nil:
		open = w.lineOf(fb.Info.Segment.Start)
	case fb.Lines().Len() > 0:
		open = w.lineOf(fb.Lines().At(0).Start) - 1
	default:
		return
	}

	last := open
	var body bytes.Buffer
	for i := 0; i < fb.Lines().Len(); i++ {
		seg := fb.Lines().At(i)
		body.Write(seg.Value(w.src))
		last = w.lineOf(seg.Start)
	}

	opening := strings.TrimSpace(w.doc.Line(open))
	fence := leadingRun(opening)
	closeLine := 0
	for n := last + 1; n <= w.doc.LineCount(); n++ {
		if isClosingFence(w.doc.Line(n), fence) {
			closeLine = n
			break
		}
	}

	cb := CodeBlock{
		OpenLine:  open,
		CloseLine: closeLine,
		Fenced:    true,
		Info:      strings.TrimSpace(opening[len(fence):]),
		Body:      body.Bytes(),
	}
	cb.Language, cb.Attrs, cb.HasAttrs = splitInfo(cb.Info)
	w.doc.CodeBlocks = append(w.doc.CodeBlocks, cb)

	end := closeLine
	if end == 0 {
		end = w.doc.LineCount()
	}
	w.doc.markCode(open, end)
}

func (w *walker) indented(cb *ast.CodeBlock) {
	if cb.Lines().Len() == 0 {
		return
	}

	var body bytes.Buffer
	for i := 0; i < cb.Lines().Len(); i++ {
		seg := cb.Lines().At(i)
		body.Write(seg.Value(w.src))
	}

	first := w.lineOf(cb.Lines().At(0).Start)
	last := w.lineOf(cb.Lines().At(cb.Lines().Len() - 1).Start)
	w.doc.CodeBlocks = append(w.doc.CodeBlocks, CodeBlock{
		OpenLine: first,
		Body:     body.Bytes(),
	})
	w.doc.markCode(first, last)
}

func (d *Document) markCode(from, to int) {
	for n := max(from, 1); n <= to && n <= len(d.code); n++ {
		d.code[n-1] = true
	}
}

// inlineText concatenates the literal text below n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

// leadingRun returns the run of fence characters starting s.
func leadingRun(s string) string {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return ""
	}
	i := 0
	for i < len(s) && s[i] == s[0] {
		i++
	}
	return s[:i]
}

func isClosingFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	run := leadingRun(trimmed)
	return run != "" && fence != "" && run[0] == fence[0] &&
		len(run) >= len(fence) && len(run) == len(trimmed)
}

// splitInfo separates "python {#lst:x caption="y"}" into its language and
// attribute block.
func splitInfo(info string) (lang, attrs string, hasAttrs bool) {
	brace := strings.IndexByte(info, '{')
	head := info
	if brace >= 0 {
		head = info[:brace]
		rest := info[brace+1:]
		if end := strings.IndexByte(rest, '}'); end >= 0 {
			attrs, hasAttrs = rest[:end], true
		} else {
			attrs, hasAttrs = rest, true
		}
	}
	if fields := strings.Fields(head); len(fields) > 0 {
		lang = fields[0]
	}
	return lang, attrs, hasAttrs
}
