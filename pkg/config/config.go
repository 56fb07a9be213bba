// Package config defines the configuration types shared by the xref and lint
// commands. They are plain data; discovery and merging live in configloader.
package config

import "slices"

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when a document is rewritten in place.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// KindTokens are the identifier tokens used in ids and placeholders.
type KindTokens struct {
	Figure  string `yaml:"figure"`
	Table   string `yaml:"table"`
	Listing string `yaml:"listing"`
}

// XrefConfig configures cross-reference resolution.
type XrefConfig struct {
	// IDPrefix is prepended to every sanitized name.
	IDPrefix string `yaml:"id_prefix"`

	// FallbackName is used when a label sanitizes to nothing.
	FallbackName string `yaml:"fallback_name"`

	Tokens KindTokens `yaml:"tokens"`
}

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "table-caption"
	RuleFormatID       RuleFormat = "id"       // "TM006"
	RuleFormatCombined RuleFormat = "combined" // "TM006/table-caption"
)

// Identifier renders a rule as f asks. Rules without a name always show
// their ID, and an unset format shows the name.
func (f RuleFormat) Identifier(id, name string) string {
	switch {
	case name == "" || f == RuleFormatID:
		return id
	case f == RuleFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}

// Config is the root configuration structure for thesismd.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default"`

	Xref XrefConfig `yaml:"xref"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	Format       OutputFormat `yaml:"-"`
	RuleFormat   RuleFormat   `yaml:"-"`
	Strict       bool         `yaml:"-"`
	EnableRules  []string     `yaml:"-"`
	DisableRules []string     `yaml:"-"`
	NoBackups    bool         `yaml:"-"`
}

// NewConfig returns a Config with the defaults used when no file is found.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Xref: XrefConfig{
			IDPrefix:     "id_",
			FallbackName: "unnamed",
			Tokens: KindTokens{
				Figure:  "fig",
				Table:   "tbl",
				Listing: "lst",
			},
		},
		Rules: make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
	}
}

// IsIgnored reports whether path is listed by one of the ignore patterns.
// Matching itself is delegated to match so this package stays free of
// filesystem dependencies.
func (c *Config) IsIgnored(path string, match func(string, []string) bool) bool {
	if c == nil || len(c.Ignore) == 0 {
		return false
	}
	return match(path, c.Ignore)
}

// RuleEnabledOverride returns the CLI enable/disable decision for a rule,
// checking both its ID and name. ok is false when neither list names it.
func (c *Config) RuleEnabledOverride(id, name string) (enabled, ok bool) {
	named := func(list []string) bool {
		return slices.Contains(list, id) || (name != "" && slices.Contains(list, name))
	}
	if named(c.DisableRules) {
		return false, true
	}
	if named(c.EnableRules) {
		return true, true
	}
	return false, false
}
