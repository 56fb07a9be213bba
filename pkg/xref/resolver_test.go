package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() (*Resolver, *Registry) {
	tokens := DefaultTokens()
	return NewResolver(tokens, NewSanitizer("", "")), NewRegistry(tokens)
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	res, reg := newTestResolver()
	reg.Define(Figure, "id_Overview", "Overview", 1)
	reg.Define(Table, "id_Results", "Results", 2)
	reg.Define(Listing, "id_Main", "Main", 3)

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "figure token", line: "See {{fig:Overview}}.", want: "See  @fig:id_Overview_1 ."},
		{name: "canonical kind name", line: "{{figure:Overview}}", want: " @fig:id_Overview_1 "},
		{name: "case-insensitive kind", line: "{{TABLE:Results}}", want: " @tbl:id_Results_1 "},
		{name: "fullwidth braces", line: "见｛｛fig：Overview｝｝。", want: "见 @fig:id_Overview_1 。"},
		{name: "mixed braces", line: "{｛lst:Main}｝", want: " @lst:id_Main_1 "},
		{name: "name is sanitized", line: "{{fig: Overview! }}", want: " @fig:id_Overview_1 "},
		{
			name: "several on one line",
			line: "{{fig:Overview}} and {{tbl:Results}}",
			want: " @fig:id_Overview_1  and  @tbl:id_Results_1 ",
		},
		{name: "no placeholder", line: "plain {{text}}", want: "plain {{text}}"},
		{name: "unknown kind left alone", line: "{{sec:Overview}}", want: "{{sec:Overview}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := res.Resolve([]string{tt.line}, reg)
			assert.Equal(t, []string{tt.want}, result.Lines)
			assert.Empty(t, result.Unresolved)
		})
	}
}

func TestResolver_Unresolved(t *testing.T) {
	t.Parallel()

	res, reg := newTestResolver()
	reg.Define(Figure, "id_A", "A", 1)

	line := "{{fig:A}} then {{figure:Nonexistent}} then {{fig:A}}"
	result := res.Resolve([]string{"x", line}, reg)

	assert.Equal(t, "x", result.Lines[0])
	assert.Equal(t, " @fig:id_A_1  then {{figure:Nonexistent}} then  @fig:id_A_1 ", result.Lines[1])

	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, Unresolved{
		Kind:    Figure,
		RawName: "Nonexistent",
		Name:    "id_Nonexistent",
		Line:    2,
		Text:    "{{figure:Nonexistent}}",
	}, result.Unresolved[0])
	assert.Len(t, result.Resolved, 2)
}

func TestResolver_OnlyUnresolvedLeavesLine(t *testing.T) {
	t.Parallel()

	res, reg := newTestResolver()
	result := res.Resolve([]string{"See {{tbl:Missing}}."}, reg)

	assert.Equal(t, []string{"See {{tbl:Missing}}."}, result.Lines)
	assert.Len(t, result.Unresolved, 1)
}

func TestResolver_Directions(t *testing.T) {
	t.Parallel()

	res, reg := newTestResolver()
	reg.Define(Table, "id_R", "R", 10)
	reg.Define(Table, "id_R", "R", 50)
	reg.Define(Figure, "id_U", "U", 60)

	lines := make([]string, 70)
	lines[4] = "{{tbl:R}}"
	lines[29] = "{{tbl:R}}"
	lines[64] = "{{fig:U}}"

	result := res.Resolve(lines, reg)
	require.Len(t, result.Resolved, 3)

	assert.Equal(t, DirectionForward, result.Resolved[0].Direction)
	assert.Equal(t, 10, result.Resolved[0].Target.Line)
	assert.Equal(t, 5, result.Resolved[0].Distance())

	assert.Equal(t, DirectionBackward, result.Resolved[1].Direction)
	assert.Equal(t, "tbl:id_R_1", result.Resolved[1].Target.ID)
	assert.Equal(t, 2, result.Resolved[1].Candidates)

	assert.Equal(t, DirectionUnique, result.Resolved[2].Direction)
	assert.Equal(t, 5, result.Resolved[2].Distance())
}

func TestCitation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " @fig:id_A_1 ", Citation("fig:id_A_1"))
}
