package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/thesismd/pkg/config"
)

func TestPlaceholderFormatRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "canonical", input: "See {{fig:Overview}}.\n"},
		{name: "long kind name", input: "See {{figure:Overview}} and {{TBL:Data}}.\n"},
		{
			name:  "space after colon",
			input: "See {{fig: Overview}}.\n",
			want:  []string{"Space after the colon in placeholder"},
		},
		{
			name:  "space before colon",
			input: "See {{fig :Overview}}.\n",
			want:  []string{"Space before the colon; the placeholder is not recognized"},
		},
		{
			name:  "space after braces",
			input: "See {{ fig:Overview}}.\n",
			want:  []string{`Space after "{{"; the placeholder is not recognized`},
		},
		{
			name:  "unknown kind",
			input: "See {{sec:intro}}.\n",
			want:  []string{`Unknown placeholder kind "sec"`},
		},
		{
			name:  "fullwidth braces",
			input: "See ｛｛fig:Overview｝｝.\n",
			want:  []string{"Fullwidth punctuation in placeholder"},
		},
		{
			name:  "fullwidth colon",
			input: "See {{tbl：Data}}.\n",
			want:  []string{"Fullwidth punctuation in placeholder"},
		},
		{name: "in code", input: "```\n{{fig :x}}\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewPlaceholderFormatRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestPlaceholderFormatRule_Suggestion(t *testing.T) {
	t.Parallel()

	diags := applyRule(t, NewPlaceholderFormatRule(), "", "See {{figure : Overview }}.\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "{{fig:Overview}}", diags[0].Suggestion)
	assert.Equal(t, 5, diags[0].Column)
}

func TestCrossrefResolutionRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantLines []int
	}{
		{
			name:  "resolved",
			input: "![Overview](a.png)\n\nSee {{fig:Overview}}.\n",
		},
		{
			name:      "unresolved",
			input:     "See {{fig:Missing}}.\n",
			wantLines: []int{1},
		},
		{
			name:      "line after merged attribute block",
			input:     "![A](a.png){width=50%\nheight=1cm}\n\nSee {{fig:Nope}}.\n",
			wantLines: []int{4},
		},
		{
			name:      "unterminated attribute block",
			input:     "![A](a.png){width=50%\nmore text\n",
			wantLines: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewCrossrefResolutionRule(), "", tt.input, nil)
			var lines []int
			for _, d := range diags {
				lines = append(lines, d.Line)
			}
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestCrossrefResolutionRule_Messages(t *testing.T) {
	t.Parallel()

	diags := applyRule(t, NewCrossrefResolutionRule(), "", "See {{tbl:Missing data}}.\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, `No table named "Missing data"`, diags[0].Message)
	assert.Equal(t, "{{tbl:Missing data}}", diags[0].Context)

	diags = applyRule(t, NewCrossrefResolutionRule(), "", "![A](a.png){width=50%\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, config.SeverityError, diags[0].Severity)
}

func TestCrossrefResolutionRule_CustomTokens(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Xref.Tokens.Figure = "abb"

	diags := applyRuleWithConfig(t, NewCrossrefResolutionRule(), "{{abb:Missing}} and {{fig:Other}}\n", cfg)
	require.Len(t, diags, 1)
	assert.Equal(t, `No figure named "Missing"`, diags[0].Message)
}

func TestDuplicateLabelRule(t *testing.T) {
	t.Parallel()

	diags := applyRule(t, NewDuplicateLabelRule(), "", "![Same](a.png)\n\n![Same](b.png)\n", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Message, "also defined on line 1")

	diags = applyRule(t, NewDuplicateLabelRule(), "", "![A B](a.png)\n\n![A-B](b.png)\n", nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `shares the name "id_A_B"`)

	diags = applyRule(t, NewDuplicateLabelRule(), "", "![A](a.png)\n\n![B](b.png)\n", nil)
	assert.Empty(t, diags)
}

func TestIDHygieneRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "clean ids",
			input: "# Intro {#sec:intro}\n\n![A](a.png){#fig:a}\n\nTable: R {#tbl:r}\n",
		},
		{
			name:  "duplicate figure id",
			input: "![A](a.png){#fig:a}\n\n![B](b.png){#fig:a}\n",
			want:  []string{"Identifier #fig:a is already used on line 1"},
		},
		{
			name:  "figure without token",
			input: "![A](a.png){#a}\n",
			want:  []string{"Figure identifier #a does not start with fig:"},
		},
		{
			name:  "table without token",
			input: "Table: R {#t1}\n",
			want:  []string{"Table identifier #t1 does not start with tbl:"},
		},
		{
			name:  "space inside id",
			input: "![A](a.png){#fig: a}\n",
			want:  []string{"Identifier #fig: is followed by a space"},
		},
		{
			name:  "duplicate listing id",
			input: "```python {#lst:a caption=\"x\"}\nx\n```\n\n```python {#lst:a caption=\"y\"}\ny\n```\n",
			want:  []string{"Identifier #lst:a is already used on line 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewIDHygieneRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}
