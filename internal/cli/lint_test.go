package cli_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/internal/cli"
	"github.com/yaklabco/thesismd/pkg/analysis"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

// onlyRules returns a --disable value that leaves just keep enabled.
func onlyRules(keep ...string) string {
	var disabled []string
	for _, rule := range thesislint.DefaultRegistry.Rules() {
		if !slices.Contains(keep, rule.ID()) {
			disabled = append(disabled, rule.ID())
		}
	}
	return strings.Join(disabled, ",")
}

const (
	missingAltText = "Intro.\n\n![](diagram.png)\n"
	tightHeading   = "# Title\nText right below.\n"
)

func TestLint_Errors(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", missingAltText)

	stdout, _, err := execute(t, "lint", file,
		"--disable", onlyRules("TM004"),
		"--config", isolatedConfig(t, ""),
		"--color", "never",
	)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, cli.ExitLintErrors, cli.ExitCode(err))

	assert.Contains(t, stdout, "thesis.md:3")
	assert.Contains(t, stdout, "Image has no caption text")
	assert.Contains(t, stdout, "(image-alt-text)")
	assert.Contains(t, stdout, "1 issue (1 error) in 1 file")
}

func TestLint_RuleFormat(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", missingAltText)
	cfg := isolatedConfig(t, "")

	tests := []struct {
		ruleFormat string
		want       string
	}{
		{ruleFormat: "name", want: "(image-alt-text)"},
		{ruleFormat: "id", want: "(TM004)"},
		{ruleFormat: "combined", want: "(TM004/image-alt-text)"},
	}

	for _, tt := range tests {
		t.Run(tt.ruleFormat, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, "lint", file,
				"--disable", onlyRules("TM004"),
				"--rule-format", tt.ruleFormat,
				"--config", cfg,
				"--color", "never",
			)
			require.ErrorIs(t, err, cli.ErrLintIssuesFound)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestLint_Strict(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", tightHeading)
	cfg := isolatedConfig(t, "")

	_, _, err := execute(t, "lint", file, "--disable", onlyRules("TM012"), "--config", cfg)
	require.NoError(t, err, "warnings alone pass")

	_, _, err = execute(t, "lint", file, "--disable", onlyRules("TM012"), "--strict", "--config", cfg)
	require.ErrorIs(t, err, cli.ErrStrictWarnings)
	assert.Equal(t, cli.ExitLintWarnings, cli.ExitCode(err))
}

func TestLint_SeverityFromConfig(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", tightHeading)
	cfg := isolatedConfig(t, "rules:\n  heading-spacing:\n    severity: error\n")

	_, _, err := execute(t, "lint", file, "--disable", onlyRules("TM012"), "--config", cfg)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
}

func TestLint_JSON(t *testing.T) {
	t.Parallel()

	// The heading directly follows the image, so it is missing both blank lines.
	file := writeFile(t, t.TempDir(), "thesis.md", missingAltText+tightHeading)

	stdout, _, err := execute(t, "lint", file,
		"--disable", onlyRules("TM004", "TM012"),
		"--format", "json",
		"--config", isolatedConfig(t, ""),
	)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, 3, report.Totals.Issues)
	assert.Equal(t, 1, report.Totals.Errors)
	assert.Equal(t, 2, report.Totals.Warnings)
	require.Len(t, report.Diagnostics, 3)
}

func TestLint_Summary(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", missingAltText)

	stdout, _, err := execute(t, "lint", file,
		"--disable", onlyRules("TM004"),
		"--format", "summary",
		"--config", isolatedConfig(t, ""),
		"--color", "never",
	)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	assert.Contains(t, stdout, "Rules Summary")
	assert.Contains(t, stdout, "image-alt-text")
	assert.Contains(t, stdout, "Total: 1 issue (1 error) in 1 file")
}

func TestLint_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "chapters/one.md", missingAltText)
	writeFile(t, dir, "chapters/drafts/two.md", missingAltText)
	writeFile(t, dir, "notes.txt", missingAltText)

	stdout, _, err := execute(t, "lint", dir,
		"--disable", onlyRules("TM004"),
		"--ignore", "**/drafts/**",
		"--format", "json",
		"--config", isolatedConfig(t, ""),
	)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	require.Len(t, report.Diagnostics, 1)
	assert.True(t, strings.HasSuffix(report.Diagnostics[0].FilePath, "one.md"))
}

func TestLint_CleanFile(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "thesis.md", "Just prose.\n")

	stdout, _, err := execute(t, "lint", file,
		"--disable", onlyRules("TM004", "TM012"),
		"--config", isolatedConfig(t, ""),
		"--color", "never",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues found (1 file checked)")
}
