package config

import (
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every rule with its description.
	// If false, generates a minimal template.
	Full bool
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
}

// RuleInfoProvider returns information about the available rules.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a commented .thesismd.yml.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	defaults := NewConfig()

	var buf strings.Builder
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Default severity for rules: error, warning, or info\n")
	fmt.Fprintf(&buf, "severity_default: %s\n\n", defaults.SeverityDefault)

	buf.WriteString("# Cross-reference identifiers look like <token>:<prefix><name>_<n>.\n")
	buf.WriteString("xref:\n")
	fmt.Fprintf(&buf, "  id_prefix: %q\n", defaults.Xref.IDPrefix)
	fmt.Fprintf(&buf, "  fallback_name: %q\n", defaults.Xref.FallbackName)
	buf.WriteString("  tokens:\n")
	fmt.Fprintf(&buf, "    figure: %s\n", defaults.Xref.Tokens.Figure)
	fmt.Fprintf(&buf, "    table: %s\n", defaults.Xref.Tokens.Table)
	fmt.Fprintf(&buf, "    listing: %s\n\n", defaults.Xref.Tokens.Listing)

	buf.WriteString("# Back up documents before rewriting them in place.\n")
	buf.WriteString("backups:\n")
	fmt.Fprintf(&buf, "  enabled: %t\n", defaults.Backups.Enabled)
	fmt.Fprintf(&buf, "  mode: %s\n\n", defaults.Backups.Mode)

	buf.WriteString("# Glob patterns for files to skip.\n")
	buf.WriteString("# ignore:\n#   - \"drafts/**\"\n\n")

	if !opts.Full {
		buf.WriteString("# Per-rule settings, keyed by ID or name:\n")
		buf.WriteString("# rules:\n")
		buf.WriteString("#   TM013:\n")
		buf.WriteString("#     enabled: false\n")
		buf.WriteString("#   required-sections:\n")
		buf.WriteString("#     severity: error\n")
		return []byte(buf.String()), nil
	}

	rules := getRuleInfos()
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	buf.WriteString("rules:\n")
	for _, rule := range rules {
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		fmt.Fprintf(&buf, "  %s: # %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n\n", rule.Severity)
	}

	return []byte(buf.String()), nil
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# thesismd configuration
# See: https://github.com/yaklabco/thesismd`
}
