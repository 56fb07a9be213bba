package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// applyRule parses input as dir/thesis.md and runs rule over it.
func applyRule(
	t *testing.T,
	rule thesislint.Rule,
	dir, input string,
	options map[string]any,
) []thesislint.Diagnostic {
	t.Helper()

	if dir == "" {
		dir = t.TempDir()
	}
	doc, err := thesislint.ParseDocument(context.Background(), filepath.Join(dir, "thesis.md"), []byte(input))
	require.NoError(t, err)

	var ruleCfg *config.RuleConfig
	if options != nil {
		ruleCfg = &config.RuleConfig{Options: options}
	}

	diags, err := rule.Apply(thesislint.NewRuleContext(context.Background(), doc, config.NewConfig(), ruleCfg))
	require.NoError(t, err)
	return diags
}

// writeFiles creates files relative to dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func messages(diags []thesislint.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// applyRuleWithConfig runs rule with a full configuration and no rule options.
func applyRuleWithConfig(t *testing.T, rule thesislint.Rule, input string, cfg *config.Config) []thesislint.Diagnostic {
	t.Helper()

	doc, err := thesislint.ParseDocument(context.Background(), filepath.Join(t.TempDir(), "thesis.md"), []byte(input))
	require.NoError(t, err)

	diags, err := rule.Apply(thesislint.NewRuleContext(context.Background(), doc, cfg, nil))
	require.NoError(t, err)
	return diags
}
