package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		lines            []string
		want             []string
		wantUnterminated []int
	}{
		{
			name:  "passthrough",
			lines: []string{"# Title", "", "![A](a.png){width=50%}"},
			want:  []string{"# Title", "", "![A](a.png){width=50%}"},
		},
		{
			name:  "merge until closing brace",
			lines: []string{"![A](a.png){#fig:x", "   width=50%  ", "  height=2cm }", "after"},
			want:  []string{"![A](a.png){#fig:x width=50% height=2cm }", "after"},
		},
		{
			name:  "trailing space on open line",
			lines: []string{"![A](a.png){   ", "width=1}"},
			want:  []string{"![A](a.png){ width=1}"},
		},
		{
			name:             "unterminated",
			lines:            []string{"before", "![A](a.png){width=50%", "more"},
			want:             []string{"before", "![A](a.png){width=50% more"},
			wantUnterminated: []int{2},
		},
		{
			name:  "empty label is not a figure",
			lines: []string{"![](a.png){width=50%", "x}"},
			want:  []string{"![](a.png){width=50%", "x}"},
		},
		{
			name:  "carriage return kept on merged line",
			lines: []string{"![A](a.png){x\r", " y}\r"},
			want:  []string{"![A](a.png){x y}\r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, unterminated := Normalize(tt.lines)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUnterminated, unterminated)
		})
	}
}

func TestNormalize_Origins(t *testing.T) {
	t.Parallel()

	_, origins, _ := normalize([]string{"a", "![A](a.png){", "b}", "c", "![B](b.png){", "d", "e}", "f"})
	assert.Equal(t, []int{1, 2, 4, 5, 8}, origins)
}
