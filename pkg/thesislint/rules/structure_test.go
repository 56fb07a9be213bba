package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingSpacingRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "spaced", input: "# Title\n\nText\n"},
		{
			name:  "text before",
			input: "Text\n# Title\n\nMore\n",
			want:  []string{"Missing blank line before heading"},
		},
		{
			name:  "text after",
			input: "# Title\nText\n",
			want:  []string{"Missing blank line after heading"},
		},
		{
			name:  "stacked headings",
			input: "# A\n## B\n\nText\n",
			want:  []string{"Missing blank line after heading"},
		},
		{name: "after front matter", input: "---\ntitle: x\n---\n# Title\n\nText\n"},
		{name: "setext ignored", input: "Title\n=====\nText\n"},
		{name: "last line", input: "Text\n\n# End\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewHeadingSpacingRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestFullwidthPunctuationRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		wantN int
	}{
		{name: "table caption", input: "Table：Results\n", wantN: 1},
		{name: "link paren", input: "[link]（http://x.org）\n", wantN: 1},
		{name: "link close paren", input: "[link](http://x.org）\n", wantN: 1},
		{name: "note ascii colon", input: "> 注: 数据\n", wantN: 1},
		{name: "source ascii colon", input: ">数据来源:统计局\n", wantN: 1},
		{name: "note fullwidth colon", input: ">注：数据\n", wantN: 0},
		{name: "prose", input: "中文句子（括号）没有问题。\n", wantN: 0},
		{name: "code", input: "```\nTable：x\n```\n", wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewFullwidthPunctuationRule(), "", tt.input, nil)
			assert.Len(t, diags, tt.wantN)
		})
	}
}

func TestRequiredSectionsRule(t *testing.T) {
	t.Parallel()

	header := "---\ntitle: x\n---\n\n"

	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{name: "chapter file", input: "# Intro\n\nText\n"},
		{
			name:  "main without references",
			input: header + "# Intro\n\nText\n",
			want: []string{
				"Missing references section",
				"Missing {#refs} anchor for the bibliography",
			},
		},
		{
			name:  "complete",
			input: header + "# 参考文献\n\n::: {#refs}\n:::\n",
		},
		{
			name:  "heading attributes",
			input: header + "# References {.unnumbered}\n\n<div id=\"refs\"></div>\n",
		},
		{
			name:    "extra section",
			input:   header + "# References\n\n::: {#refs}\n:::\n",
			options: map[string]any{"sections": []any{"Conclusion"}},
			want:    []string{`Missing required section "Conclusion"`},
		},
		{
			name:    "anchor not required",
			input:   header + "# Bibliography\n",
			options: map[string]any{"refs_anchor": false},
		},
		{
			name:    "all documents",
			input:   "# Intro\n\n::: {#refs}\n:::\n",
			options: map[string]any{"main_only": false},
			want:    []string{"Missing references section"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewRequiredSectionsRule(), "", tt.input, tt.options)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestHeadingNumberingRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{name: "consistent", input: "# 1 Introduction\n\n## 1.1 Background\n\n### 1.1.2. Detail\n"},
		{name: "unnumbered", input: "# Introduction\n\n## 2024 results\n\n## 3D printing\n"},
		{
			name:  "too shallow",
			input: "## 1 Introduction\n",
			want:  []string{"Heading number 1 implies level 1, found 2"},
		},
		{
			name:  "too deep",
			input: "# 1.1 Background\n",
			want:  []string{"Heading number 1.1 implies level 2, found 1"},
		},
		{
			name:  "missing space",
			input: "## 1.1Background\n",
			want:  []string{"Missing space after heading number 1.1"},
		},
		{
			name:    "offset",
			input:   "## 1 Introduction\n",
			options: map[string]any{"offset": 1},
		},
		{name: "chapter", input: "# 第1章 绪论\n"},
		{
			name:  "chapter level",
			input: "## 第一章 绪论\n",
			want:  []string{"Chapter heading is level 2, expected 1"},
		},
		{
			name:  "chapter spacing",
			input: "# 第一章绪论\n",
			want:  []string{"Missing space after chapter number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewHeadingNumberingRule(), "", tt.input, tt.options)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestUnnumberedMarkerRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "short marker", input: "# 摘要 {-}\n"},
		{name: "long marker", input: "# Title {.unnumbered}\n"},
		{name: "no marker", input: "# 绪论\n"},
		{name: "missing space", input: "# 摘要{-}\n", want: []string{"Missing space before {-}"}},
		{name: "inner spaces", input: "# 摘要 { - }\n", want: []string{"Spaces inside { - }"}},
		{
			name:  "both",
			input: "# 摘要{ -}\n",
			want:  []string{"Missing space before { -}", "Spaces inside { -}"},
		},
		{
			name:  "long marker missing space",
			input: "# Title{.unnumbered}\n",
			want:  []string{"Missing space before {.unnumbered}"},
		},
		{name: "code", input: "```\n# x{-}\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewUnnumberedMarkerRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestAbstractSectionsRule(t *testing.T) {
	t.Parallel()

	header := "---\ntitle: x\n---\n\n"
	english := "## ABSTRACT\n\nText.\n\n**Keywords:**a; b; c\n"

	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{
			name:  "complete",
			input: header + "## 摘要\n\n正文。\n\n**关键词：**甲；乙；丙\n\n" + english,
		},
		{name: "chapter file", input: "## Background\n\nText\n"},
		{
			name:  "no sections",
			input: header + "# Intro\n",
			want:  []string{"No level-2 headings; the abstracts are missing"},
		},
		{
			name:  "no abstracts",
			input: header + "## Background\n\nText\n",
			want: []string{
				"No Chinese abstract heading (## 摘要)",
				"No English abstract heading (## ABSTRACT)",
				"No **Keywords:** line for the English abstract",
			},
		},
		{
			name:  "abstract not first",
			input: header + "## 前言\n\n## 摘  要\n\n**关键词：**甲；乙；丙\n\n" + english,
			want:  []string{`First level-2 heading is "前言"; the abstract (摘要) usually comes first`},
		},
		{
			name:    "keywords too far",
			input:   header + "## 摘要\n\n正文\n\n\n**关键词：**甲；乙；丙\n\n" + english,
			options: map[string]any{"window": 2},
			want:    []string{"No **关键词：** line after the Chinese abstract"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewAbstractSectionsRule(), "", tt.input, tt.options)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestKeywordFormatRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "chinese", input: "**关键词：**机器学习；深度学习；神经网络\n"},
		{name: "english", input: "**Keywords:**machine learning; deep learning\n"},
		{
			name:  "chinese leading space",
			input: "**关键词：** 机器学习；深度学习；神经网络\n",
			want:  []string{"Space before the Chinese keywords"},
		},
		{
			name:  "chinese commas",
			input: "**关键词：**机器学习，深度学习，神经网络\n",
			want:  []string{`Chinese keywords separated by "，"`},
		},
		{
			name:  "chinese ascii semicolons",
			input: "**关键词：**甲;乙;丙\n",
			want:  []string{`Chinese keywords separated by ";"`},
		},
		{
			name:  "chinese trailing punctuation",
			input: "**关键词：**机器学习；深度学习；神经网络。\n",
			want:  []string{"Punctuation after the last keyword"},
		},
		{
			name:  "too few",
			input: "**关键词：**机器学习；深度学习\n",
			want:  []string{"2 keywords, expected 3 to 8"},
		},
		{
			name:  "english leading space",
			input: "**Keywords:** a; b\n",
			want:  []string{"Space before the English keywords"},
		},
		{
			name:  "english commas",
			input: "**Keywords:**a, b, c\n",
			want:  []string{`English keywords separated by ","`},
		},
		{
			name:  "english fullwidth semicolon",
			input: "**Keywords:**a；b\n",
			want:  []string{`English keywords separated by "；"`},
		},
		{
			name:  "english trailing punctuation",
			input: "**Keywords:**a; b.\n",
			want:  []string{"Punctuation after the last keyword"},
		},
		{name: "code", input: "```\n**关键词：**甲\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewKeywordFormatRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestKeywordFormatRule_CountOptions(t *testing.T) {
	t.Parallel()

	diags := applyRule(t, NewKeywordFormatRule(), "", "**关键词：**甲；乙\n",
		map[string]any{"min_keywords": 2, "max_keywords": 4})
	assert.Empty(t, diags)
}

func TestAbstractHeadingCaseRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "upper case", input: "## ABSTRACT\n"},
		{name: "with marker", input: "## ABSTRACT {-}\n"},
		{name: "level one", input: "# Abstract\n"},
		{name: "title case", input: "## Abstract\n", want: []string{`English abstract heading is "Abstract"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewAbstractHeadingCaseRule(), "", tt.input, nil)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}

func TestChapterCountRule(t *testing.T) {
	t.Parallel()

	header := "---\ntitle: x\n---\n\n"

	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{name: "enough", input: header + "# 题目\n\n# 目录\n\n# 绪论\n\n# 参考文献\n"},
		{name: "chapter file", input: "# 绪论\n"},
		{
			name:  "too few",
			input: header + "# 题目\n\n# 绪论\n",
			want:  []string{"Only 2 level-1 headings, expected at least 4"},
		},
		{
			name:    "custom minimum",
			input:   header + "# 题目\n\n# 绪论\n",
			options: map[string]any{"min": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, NewChapterCountRule(), "", tt.input, tt.options)
			assert.Equal(t, tt.want, nilIfEmpty(messages(diags)))
		})
	}
}
