package rules

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// ImageAltTextRule checks that images carry the caption pandoc numbers.
type ImageAltTextRule struct {
	thesislint.BaseRule
}

// NewImageAltTextRule creates a new image alt text rule.
func NewImageAltTextRule() *ImageAltTextRule {
	return &ImageAltTextRule{
		BaseRule: thesislint.NewBaseRule(
			"TM004",
			"image-alt-text",
			"Images have caption text",
			config.SeverityError,
			"figures", "accessibility",
		),
	}
}

// Apply reports images whose alt text is blank.
func (r *ImageAltTextRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		for _, img := range findImages(line) {
			if strings.TrimSpace(img.Alt) != "" {
				continue
			}
			diags = append(diags, r.Diag(n, "Image has no caption text").
				WithColumn(img.Column).
				WithSuggestion("Write the figure caption between the brackets: ![caption](path)").
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// ImageExistsRule checks that local images exist on disk.
type ImageExistsRule struct {
	thesislint.BaseRule
}

// NewImageExistsRule creates a new image exists rule.
func NewImageExistsRule() *ImageExistsRule {
	return &ImageExistsRule{
		BaseRule: thesislint.NewBaseRule(
			"TM005",
			"image-exists",
			"Local image files exist",
			config.SeverityError,
			"figures", "files",
		),
	}
}

// Apply resolves each local image path against the document directory.
func (r *ImageExistsRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	var diags []thesislint.Diagnostic

	for n, line := range doc.TextLines() {
		if ctx.Cancelled() {
			return nil, ctx.Ctx.Err()
		}

		for _, img := range findImages(line) {
			path := imagePath(img.Dest)
			if path == "" || isRemote(path) {
				continue
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}

			if !fileExists(doc.ResolvePath(path)) {
				diags = append(diags, r.Diag(n, fmt.Sprintf("Image file not found: %s", path)).
					WithColumn(img.Column).
					WithSuggestion("Paths are relative to the document's directory").
					WithContext(line).
					Build())
			}
		}
	}

	return diags, nil
}

// ImageLocationRule checks that local images live in the media directory.
type ImageLocationRule struct {
	thesislint.BaseRule
}

// NewImageLocationRule creates a new image location rule.
func NewImageLocationRule() *ImageLocationRule {
	return &ImageLocationRule{
		BaseRule: thesislint.NewBaseRule(
			"TM022",
			"image-location",
			"Local images are kept under media/",
			config.SeverityWarning,
			"figures", "files",
		),
	}
}

// Apply compares each relative image path with the media directory.
//
// Options:
//   - dir: directory images must live in, relative to the document (default "media")
func (r *ImageLocationRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	dir := strings.Trim(filepath.ToSlash(ctx.OptionString("dir", "media")), "/")
	if dir == "" {
		return nil, nil
	}

	var diags []thesislint.Diagnostic

	for n, line := range ctx.Doc.TextLines() {
		for _, img := range findImages(line) {
			path := imagePath(img.Dest)
			if path == "" || isRemote(path) || filepath.IsAbs(path) {
				continue
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			if strings.HasPrefix(filepath.ToSlash(filepath.Clean(path)), dir+"/") {
				continue
			}
			diags = append(diags, r.Diag(n, fmt.Sprintf("Image %s is outside %s/", path, dir)).
				WithColumn(img.Column).
				WithSuggestion(fmt.Sprintf("Move the file under %s/ and update the path", dir)).
				WithContext(line).
				Build())
		}
	}

	return diags, nil
}

// Table caption grammar.
var (
	captionLinePattern = regexp.MustCompile(`(?i)^\s*(table)(\s*):(.*)$`)
	gridBorderPattern  = regexp.MustCompile(`^\s*\+[-=:+]+\+\s*$`)
	attrBlockPattern   = regexp.MustCompile(`\{[^}]*\}\s*$`)
)

// TableCaptionRule checks "Table: name" caption lines.
type TableCaptionRule struct {
	thesislint.BaseRule
}

// NewTableCaptionRule creates a new table caption rule.
func NewTableCaptionRule() *TableCaptionRule {
	return &TableCaptionRule{
		BaseRule: thesislint.NewBaseRule(
			"TM006",
			"table-caption",
			"Table captions use \"Table: name\" next to a pipe table",
			config.SeverityError,
			"tables",
		),
	}
}

// Apply checks the caption spelling and its neighbouring table.
func (r *TableCaptionRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	var diags []thesislint.Diagnostic

	for n, line := range doc.TextLines() {
		m := captionLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		word, gap, rest := m[1], m[2], m[3]

		if word != "Table" {
			diags = append(diags, r.Diag(n, fmt.Sprintf("Table caption starts with %q", word+":")).
				WithSuggestion("Write \"Table: name\" with a capital T").
				WithContext(line).
				Build())
			continue
		}

		if gap != "" {
			diags = append(diags, r.Diag(n, "Space between \"Table\" and the colon").
				WithContext(line).
				Build())
			continue
		}

		if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "\t") {
			diags = append(diags, r.Diag(n, "Missing space after \"Table:\"").
				WithContext(line).
				Build())
			continue
		}

		if strings.TrimSpace(attrBlockPattern.ReplaceAllString(rest, "")) == "" {
			diags = append(diags, r.Diag(n, "Table caption has no name").
				WithContext(line).
				Build())
			continue
		}

		if diag, ok := r.checkNeighbours(doc, n, line); ok {
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// checkNeighbours warns when the caption is not adjacent to a pipe table.
func (r *TableCaptionRule) checkNeighbours(doc *thesislint.Document, n int, line string) (thesislint.Diagnostic, bool) {
	neighbours := []int{prevNonBlank(doc, n), nextNonBlank(doc, n)}

	for _, nb := range neighbours {
		if nb != 0 && gridBorderPattern.MatchString(doc.Line(nb)) {
			return r.Diag(n, "Caption belongs to a grid table").
				WithSeverity(config.SeverityWarning).
				WithSuggestion("Use a pipe table so the caption and numbering survive conversion").
				WithContext(line).
				Build(), true
		}
	}

	for _, nb := range neighbours {
		if nb != 0 && strings.HasPrefix(strings.TrimSpace(doc.Line(nb)), "|") {
			return thesislint.Diagnostic{}, false
		}
	}

	return r.Diag(n, "No pipe table next to the caption").
		WithSeverity(config.SeverityWarning).
		WithSuggestion("Place the caption directly above or below the table").
		WithContext(line).
		Build(), true
}
