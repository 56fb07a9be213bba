package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(cfg *config.Config)
		wantField string
	}{
		{"defaults are valid", func(*config.Config) {}, ""},
		{"bad severity", func(c *config.Config) { c.SeverityDefault = "fatal" }, "severity_default"},
		{"bad format", func(c *config.Config) { c.Format = "sarif" }, "format"},
		{"bad rule format", func(c *config.Config) { c.RuleFormat = "short" }, "rule_format"},
		{"bad backup mode", func(c *config.Config) { c.Backups.Mode = "git" }, "backups.mode"},
		{"empty prefix", func(c *config.Config) { c.Xref.IDPrefix = "" }, "xref.id_prefix"},
		{"prefix with colon", func(c *config.Config) { c.Xref.IDPrefix = "a:" }, "xref.id_prefix"},
		{"cjk fallback", func(c *config.Config) { c.Xref.FallbackName = "未命名" }, ""},
		{"fallback with space", func(c *config.Config) { c.Xref.FallbackName = "no name" }, "xref.fallback_name"},
		{"token with digit first", func(c *config.Config) { c.Xref.Tokens.Listing = "1st" }, "xref.tokens.listing"},
		{"empty token", func(c *config.Config) { c.Xref.Tokens.Figure = "" }, "xref.tokens.figure"},
		{"duplicate token ignores case", func(c *config.Config) { c.Xref.Tokens.Listing = "FIG" }, "xref.tokens.listing"},
		{"token names another kind", func(c *config.Config) { c.Xref.Tokens.Figure = "table" }, "xref.tokens.figure"},
		{"token names its own kind", func(c *config.Config) { c.Xref.Tokens.Figure = "figure" }, ""},
		{"custom tokens", func(c *config.Config) {
			c.Xref.Tokens = config.KindTokens{Figure: "pic", Table: "tab", Listing: "code"}
		}, ""},
		{"bad rule severity", func(c *config.Config) {
			c.Rules["TM001"] = config.RuleConfig{Severity: strPtr("loud")}
		}, "rules.TM001.severity"},
		{"bad ignore glob", func(c *config.Config) { c.Ignore = []string{"drafts/[a"} }, "ignore[0]"},
		{"doublestar ignore glob", func(c *config.Config) { c.Ignore = []string{"**/*.bak.md", "{a,b}/*.md"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.modify(cfg)

			result := Validate(cfg)
			if tt.wantField == "" {
				assert.True(t, result.Valid(), "unexpected errors: %v", result.AllMessages())
				return
			}
			require.False(t, result.Valid())
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).Valid())
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SeverityDefault = "fatal"
	cfg.Rules["nope"] = config.RuleConfig{}

	result := ValidateWithFile(cfg, ".thesismd.yml")

	require.Len(t, result.Errors, 1)
	assert.Equal(t, `.thesismd.yml: severity_default: invalid severity "fatal"; must be one of: error, warning, info`,
		result.Errors[0].Error())
	require.True(t, result.HasWarnings())
	assert.Equal(t, ".thesismd.yml", result.Warnings[0].FilePath)
	assert.Len(t, result.AllMessages(), 2)
}

func TestValidationError_Line(t *testing.T) {
	t.Parallel()

	err := &ValidationError{FilePath: "a.yml", Line: 3, Field: "format", Message: "bad"}
	assert.Equal(t, "a.yml:3: format: bad", err.Error())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Rules["TM006"] = config.RuleConfig{
		Enabled: boolPtr(true),
		Options: map[string]any{"a": 1, "b": 2},
	}
	base.Ignore = []string{"drafts/**"}

	override := &config.Config{
		Xref: config.XrefConfig{Tokens: config.KindTokens{Table: "tab"}},
		Rules: map[string]config.RuleConfig{
			"TM006": {Severity: strPtr("error"), Options: map[string]any{"b": 3}},
			"TM014": {Enabled: boolPtr(false)},
		},
	}

	merged := merge(base, override)

	assert.Equal(t, config.KindTokens{Figure: "fig", Table: "tab", Listing: "lst"}, merged.Xref.Tokens)
	assert.Equal(t, "id_", merged.Xref.IDPrefix)
	assert.Equal(t, []string{"drafts/**"}, merged.Ignore, "nil slice keeps base")

	tm006 := merged.Rules["TM006"]
	require.NotNil(t, tm006.Enabled)
	assert.True(t, *tm006.Enabled)
	require.NotNil(t, tm006.Severity)
	assert.Equal(t, "error", *tm006.Severity)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, tm006.Options)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, base.Rules["TM006"].Options, "base options untouched")

	assert.Contains(t, merged.Rules, "TM014")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{SeverityDefault: "info"},
		&config.Config{SeverityDefault: "error", Backups: config.BackupsConfig{Mode: "none"}},
	)

	assert.Equal(t, "error", merged.SeverityDefault)
	assert.Equal(t, "none", merged.Backups.Mode)
	assert.True(t, merged.Backups.Enabled)
}

func TestParseSliceValue(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseSliceValue(""))
	assert.Equal(t, []string{"a", "b"}, parseSliceValue(" a , ,b,"))
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "THESISMD_XREF_TOKEN_TABLE", GetEnvVarName("xref.tokens.table"))
	assert.Empty(t, GetEnvVarName("flavor"))

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "THESISMD_SEVERITY_DEFAULT")
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
