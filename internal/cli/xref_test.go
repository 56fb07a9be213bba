package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/internal/cli"
	"github.com/yaklabco/thesismd/pkg/fsutil"
	"github.com/yaklabco/thesismd/pkg/reporter"
)

const (
	xrefInput = "![Overview](a.png)\n\nSee {{fig:Overview}} and {{tbl:Missing}}.\n"

	xrefOutput = "![Overview](a.png){#fig:id_Overview_1}\n\nSee  @fig:id_Overview_1  and {{tbl:Missing}}.\n"
)

func TestXref_InPlace(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", xrefInput)

	stdout, stderr, err := execute(t, "xref", input, "--config", isolatedConfig(t, ""), "--color", "never")
	require.NoError(t, err)

	assert.Equal(t, xrefOutput, readFile(t, input))
	assert.Equal(t, xrefInput, readFile(t, input+fsutil.BackupSuffix))

	assert.Contains(t, stdout, "rewritten, backup kept")
	assert.Contains(t, stdout, "1 figure, 0 tables, 0 listings, 1 reference replaced")
	assert.Contains(t, stdout, "No table named \"Missing\"")
	assert.Contains(t, stderr, "unresolved reference")
}

func TestXref_NoBackups(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", xrefInput)

	_, _, err := execute(t, "xref", input, "--no-backups", "--config", isolatedConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, xrefOutput, readFile(t, input))
	assert.NoFileExists(t, input+fsutil.BackupSuffix)
}

func TestXref_BackupFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", xrefInput)
	cfg := isolatedConfig(t, "backups:\n  mode: none\n")

	_, _, err := execute(t, "xref", input, "--config", cfg)
	require.NoError(t, err)
	assert.NoFileExists(t, input+fsutil.BackupSuffix)

	// A second document, since the first no longer changes.
	other := writeFile(t, t.TempDir(), "thesis.md", xrefInput)
	_, _, err = execute(t, "xref", other, "--backup", "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, other+fsutil.BackupSuffix)
}

func TestXref_Output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "draft.md", xrefInput)
	output := filepath.Join(dir, "thesis.md")

	_, _, err := execute(t, "xref", input, "-o", output, "--config", isolatedConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, xrefInput, readFile(t, input), "input is untouched")
	assert.Equal(t, xrefOutput, readFile(t, output))
	assert.NoFileExists(t, input+fsutil.BackupSuffix)
}

func TestXref_OutputWithIgnoredInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "draft.md", xrefInput)
	output := filepath.Join(dir, "thesis.md")

	_, _, err := execute(t, "xref", input, "-o", output,
		"--config", isolatedConfig(t, "ignore:\n  - draft.md\n"))
	require.ErrorIs(t, err, cli.ErrOutputWithMultipleInputs)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
	assert.NoFileExists(t, output)
}

func TestXref_Check(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", xrefInput)

	stdout, _, err := execute(t, "xref", input, "--check", "--config", isolatedConfig(t, ""), "--color", "never")
	require.NoError(t, err)

	assert.Equal(t, xrefInput, readFile(t, input))
	assert.Contains(t, stdout, "would change")
}

func TestXref_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "draft.md", xrefInput)
	first := filepath.Join(dir, "first.md")
	second := filepath.Join(dir, "second.md")
	cfg := isolatedConfig(t, "")

	_, _, err := execute(t, "xref", input, "-o", first, "--config", cfg)
	require.NoError(t, err)
	_, _, err = execute(t, "xref", first, "-o", second, "--config", cfg)
	require.NoError(t, err)

	assert.Equal(t, readFile(t, first), readFile(t, second))
}

func TestXref_Glob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	one := writeFile(t, dir, "chapters/one.md", "![A](a.png)\n\n{{fig:A}}\n")
	two := writeFile(t, dir, "chapters/nested/two.md", "{{fig:A}}\n")

	stdout, _, err := execute(t, "xref", filepath.Join(dir, "chapters", "**", "*.md"),
		"--check", "--format", "json", "--config", isolatedConfig(t, ""))
	require.NoError(t, err)

	var out reporter.XrefOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	require.Len(t, out.Files, 2)
	assert.Equal(t, filepath.Base(two), filepath.Base(out.Files[0].Input), "sorted by path")
	assert.Equal(t, filepath.Base(one), filepath.Base(out.Files[1].Input))

	// Each document has its own registry: two.md cannot see one.md's figure.
	assert.Equal(t, 1, out.Files[1].Replaced)
	assert.Equal(t, 0, out.Files[0].Replaced)
	require.Len(t, out.Files[0].Unresolved, 1)
	assert.Equal(t, 2, out.Summary.Files)
	assert.Equal(t, 1, out.Summary.Unresolved)
}

func TestXref_Verbose(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", xrefInput)

	stdout, stderr, err := execute(t, "xref", input, "--check", "-v", "--config", isolatedConfig(t, ""), "--color", "never")
	require.NoError(t, err)

	assert.Contains(t, stdout, "figure \"Overview\" -> #fig:id_Overview_1")
	assert.Contains(t, stderr, "definition")
	assert.Contains(t, stderr, "fig:id_Overview_1")
}

func TestXref_DuplicateNames(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md",
		"![Overview](a.png)\n\n![Overview](b.png)\n\n![Overview!](c.png)\n")

	_, stderr, err := execute(t, "xref", input, "--check", "--config", isolatedConfig(t, ""), "--color", "never")
	require.NoError(t, err)

	assert.Contains(t, stderr, "name already defined")
	assert.Contains(t, stderr, "label collides with an earlier one after sanitizing")
	assert.Contains(t, stderr, "duplicate name")
}

func TestXref_ConfiguredTokens(t *testing.T) {
	t.Parallel()

	input := writeFile(t, t.TempDir(), "thesis.md", "![Overview](a.png)\n\n{{img:Overview}}\n")
	cfg := isolatedConfig(t, "xref:\n  id_prefix: \"x_\"\n  tokens:\n    figure: img\n")

	_, _, err := execute(t, "xref", input, "--no-backups", "--config", cfg)
	require.NoError(t, err)

	assert.Equal(t, "![Overview](a.png){#img:x_Overview_1}\n\n @img:x_Overview_1 \n", readFile(t, input))
}

func TestXref_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	one := writeFile(t, dir, "one.md", xrefInput)
	two := writeFile(t, dir, "two.md", xrefInput)
	cfg := isolatedConfig(t, "")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{
			name:     "output with several inputs",
			args:     []string{"xref", one, two, "-o", filepath.Join(dir, "out.md"), "--config", cfg},
			wantCode: cli.ExitInvalidUsage,
		},
		{
			name:     "missing input",
			args:     []string{"xref", filepath.Join(dir, "missing.md"), "--config", cfg},
			wantCode: cli.ExitIOError,
		},
		{
			name:     "pattern without matches",
			args:     []string{"xref", filepath.Join(dir, "*.markdown"), "--config", cfg},
			wantCode: cli.ExitIOError,
		},
		{
			name:     "unknown format",
			args:     []string{"xref", one, "--check", "--format", "xml", "--config", cfg},
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "malformed config",
			args:     []string{"xref", one, "--check", "--config", isolatedConfig(t, "xref: [unclosed\n")},
			wantCode: cli.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, cli.ExitCode(err))
		})
	}
}

func TestXref_RequiresInput(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "xref")
	require.Error(t, err)
}
