package thesislint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	t.Parallel()

	lines := []string{
		"---",
		"title: Thesis",
		"csl: config/gb.csl",
		"bibliography:",
		"  - a.bib",
		"  - b.bib",
		"year: 2024",
		"...",
		"# Body",
	}

	fm := parseFrontMatter(lines)
	require.NotNil(t, fm)
	require.NoError(t, fm.Err)

	assert.True(t, fm.Terminated())
	assert.Equal(t, 1, fm.StartLine)
	assert.Equal(t, 8, fm.EndLine)
	assert.True(t, fm.Contains(5))
	assert.False(t, fm.Contains(9))

	assert.Equal(t, 3, fm.KeyLine("csl"))
	assert.Equal(t, 4, fm.KeyLine("bibliography"))
	assert.Zero(t, fm.KeyLine("missing"))

	title, ok := fm.String("title")
	assert.True(t, ok)
	assert.Equal(t, "Thesis", title)

	year, ok := fm.String("year")
	assert.True(t, ok)
	assert.Equal(t, "2024", year)

	assert.Equal(t, []string{"a.bib", "b.bib"}, fm.Strings("bibliography"))
	assert.Equal(t, []string{"config/gb.csl"}, fm.Strings("csl"))
	assert.Nil(t, fm.Strings("missing"))
}

func TestParseFrontMatter_Edges(t *testing.T) {
	t.Parallel()

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, parseFrontMatter([]string{"# Title"}))
		assert.Nil(t, parseFrontMatter(nil))
	})

	t.Run("unterminated", func(t *testing.T) {
		t.Parallel()
		fm := parseFrontMatter([]string{"---", "title: x"})
		require.NotNil(t, fm)
		assert.False(t, fm.Terminated())
		assert.True(t, fm.Contains(1))
		assert.False(t, fm.Contains(2))
	})

	t.Run("not a mapping", func(t *testing.T) {
		t.Parallel()
		fm := parseFrontMatter([]string{"---", "- a", "- b", "---"})
		require.NotNil(t, fm)
		assert.ErrorIs(t, fm.Err, ErrFrontMatterNotMapping)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		fm := parseFrontMatter([]string{"---", "---"})
		require.NotNil(t, fm)
		assert.NoError(t, fm.Err)
		assert.Empty(t, fm.Fields)
	})
}
