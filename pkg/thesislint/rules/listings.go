package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/langdetect"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// ListingAttributesRule checks the attribute block of captioned listings.
type ListingAttributesRule struct {
	thesislint.BaseRule
}

// NewListingAttributesRule creates a new listing attributes rule.
func NewListingAttributesRule() *ListingAttributesRule {
	return &ListingAttributesRule{
		BaseRule: thesislint.NewBaseRule(
			"TM007",
			"listing-attributes",
			"Listing attribute blocks carry a caption and a well formed id",
			config.SeverityWarning,
			"listings", "crossref",
		),
	}
}

// listingIDPatterns compiles the id spacing checks for a listing token.
func listingIDPatterns(token string) (spaceBefore, spaceAfter, glued *regexp.Regexp) {
	quoted := regexp.QuoteMeta(token)
	spaceBefore = regexp.MustCompile(`#` + quoted + `\s+:`)
	spaceAfter = regexp.MustCompile(`#` + quoted + `:\s+\S`)
	glued = regexp.MustCompile(`#` + quoted + `:[^\s}]+caption=`)
	return spaceBefore, spaceAfter, glued
}

// Apply checks every fenced block that is not a raw output block.
func (r *ListingAttributesRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	doc := ctx.Doc
	token := processor(ctx).Tokens().Listing
	spaceBefore, spaceAfter, glued := listingIDPatterns(token)

	var diags []thesislint.Diagnostic

	for _, cb := range doc.CodeBlocks {
		if !cb.Fenced || cb.IsRaw() {
			continue
		}

		opening := doc.Line(cb.OpenLine)

		if cb.CloseLine == 0 {
			diags = append(diags, r.Diag(cb.OpenLine, "Code fence is never closed").
				WithSeverity(config.SeverityError).
				WithSuggestion("Close the block with a matching fence").
				WithContext(opening).
				Build())
		}

		if !cb.HasAttrs {
			continue
		}

		if !strings.Contains(cb.Info, "}") {
			diags = append(diags, r.Diag(cb.OpenLine, "Attribute block is never closed").
				WithSeverity(config.SeverityError).
				WithContext(opening).
				Build())
			continue
		}

		switch {
		case spaceBefore.MatchString(opening):
			diags = append(diags, r.Diag(cb.OpenLine, fmt.Sprintf("Space before the colon in #%s: id", token)).
				WithSeverity(config.SeverityError).
				WithContext(opening).
				Build())
		case spaceAfter.MatchString(opening):
			diags = append(diags, r.Diag(cb.OpenLine, fmt.Sprintf("Space after the colon in #%s: id", token)).
				WithSeverity(config.SeverityError).
				WithContext(opening).
				Build())
		case glued.MatchString(opening):
			diags = append(diags, r.Diag(cb.OpenLine, "Missing space between the id and caption=").
				WithSeverity(config.SeverityError).
				WithContext(opening).
				Build())
		}

		if strings.Count(cb.Attrs, `"`)%2 != 0 {
			diags = append(diags, r.Diag(cb.OpenLine, "Unbalanced quotes in attribute block").
				WithSeverity(config.SeverityError).
				WithContext(opening).
				Build())
			continue
		}

		if strings.Contains(cb.Attrs, "#"+token+":") && !strings.Contains(cb.Attrs, "caption=") {
			diags = append(diags, r.Diag(cb.OpenLine, "Listing has an id but no caption").
				WithSuggestion(`Add caption="..." so the listing is numbered`).
				WithContext(opening).
				Build())
		}
	}

	return diags, nil
}

// ListingLanguageRule checks that fenced code declares its language.
type ListingLanguageRule struct {
	thesislint.BaseRule
}

// NewListingLanguageRule creates a new listing language rule.
func NewListingLanguageRule() *ListingLanguageRule {
	return &ListingLanguageRule{
		BaseRule: thesislint.NewBaseRule(
			"TM008",
			"listing-language",
			"Fenced code blocks have a language tag",
			config.SeverityInfo,
			"listings",
		),
	}
}

// Apply reports fences without a language and suggests one from the body.
//
// Options:
//   - allowed: list of accepted language tags; empty accepts any
func (r *ListingLanguageRule) Apply(ctx *thesislint.RuleContext) ([]thesislint.Diagnostic, error) {
	allowed := ctx.OptionStringSlice("allowed", nil)

	var diags []thesislint.Diagnostic

	for _, cb := range ctx.Doc.CodeBlocks {
		if !cb.Fenced || cb.IsRaw() {
			continue
		}
		opening := ctx.Doc.Line(cb.OpenLine)

		lang := blockLanguage(cb)
		if lang == "" {
			builder := r.Diag(cb.OpenLine, "Code block has no language tag").WithContext(opening)
			if detected := langdetect.Detect(cb.Body); detected != langdetect.Unknown {
				builder = builder.WithSuggestion(fmt.Sprintf("Content looks like %s: ```%s", detected, detected))
			}
			diags = append(diags, builder.Build())
			continue
		}

		if len(allowed) > 0 && !slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, lang) }) {
			diags = append(diags, r.Diag(cb.OpenLine, fmt.Sprintf("Language %q is not in the allowed list", lang)).
				WithSuggestion("Allowed: "+strings.Join(allowed, ", ")).
				WithContext(opening).
				Build())
		}
	}

	return diags, nil
}

// blockLanguage returns the info-string language or the first ".class" in
// the attribute block.
func blockLanguage(cb thesislint.CodeBlock) string {
	if cb.Language != "" {
		return strings.TrimPrefix(cb.Language, ".")
	}
	for _, field := range strings.Fields(cb.Attrs) {
		if class, ok := strings.CutPrefix(field, "."); ok && class != "" {
			return class
		}
	}
	return ""
}
