package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FF8040", ColorFromRGB(255, 128, 64), false},
		{"ff8040", ColorFromRGB(255, 128, 64), false},
		{"#FFF", ColorFromRGB(255, 255, 255), false},
		{"default", ColorDefault, false},
		{"#GGG", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equals(got), "got %s", got)
		})
	}
}

func TestColorBlend(t *testing.T) {
	black := ColorFromRGB(0, 0, 0)
	white := ColorFromRGB(255, 255, 255)

	assert.True(t, black.Blend(white, 0).Equals(black))
	assert.True(t, black.Blend(white, 1).Equals(white))

	mid := black.Blend(white, 0.5)
	assert.Greater(t, mid.R, uint8(64))
	assert.Less(t, mid.R, uint8(192))

	idx := ColorFromIndex(3)
	assert.True(t, idx.Blend(white, 0.2).Equals(idx))
	assert.True(t, idx.Blend(white, 0.8).Equals(white))
}

func TestColorEquals(t *testing.T) {
	assert.True(t, ColorDefault.Equals(ColorDefault))
	assert.False(t, ColorDefault.Equals(ColorFromRGB(0, 0, 0)))
	assert.False(t, ColorFromIndex(1).Equals(ColorFromRGB(1, 0, 0)))
	assert.True(t, ColorFromIndex(1).Equals(ColorFromIndex(1)))
}

func TestStyleMerge(t *testing.T) {
	base := NewStyle(ColorFromRGB(1, 2, 3)).WithBackground(ColorFromRGB(9, 9, 9))
	over := DefaultStyle().WithBackground(ColorFromRGB(7, 7, 7)).Bold()

	got := base.Merge(over)
	assert.True(t, got.Foreground.Equals(ColorFromRGB(1, 2, 3)))
	assert.True(t, got.Background.Equals(ColorFromRGB(7, 7, 7)))
	assert.True(t, got.Attributes.Has(AttrBold))
	assert.True(t, DefaultStyle().IsDefault())
}

func TestGraphemeWidth(t *testing.T) {
	tests := []struct {
		g    string
		want int
	}{
		{"a", 1},
		{"世", 2},
		{"é", 1},
		{"\t", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GraphemeWidth(tt.g), "%q", tt.g)
	}
}

func TestCellsFromString(t *testing.T) {
	cells := CellsFromString("a世é", DefaultStyle())
	require.Len(t, cells, 4)
	assert.Equal(t, "a", cells[0].Text)
	assert.Equal(t, 2, cells[1].Width)
	assert.True(t, cells[2].IsContinuation())
	assert.Equal(t, "é", cells[3].Text)
	assert.Equal(t, "a世é", StringFromCells(cells))
}

func TestScreenRectSplits(t *testing.T) {
	r := RectFromSize(0, 0, 10, 80)

	top, rest := r.SplitTop(1)
	assert.Equal(t, 1, top.Height())
	assert.Equal(t, 9, rest.Height())

	body, status := rest.SplitBottom(2)
	assert.Equal(t, 7, body.Height())
	assert.Equal(t, 8, status.Top)

	gutter, text := body.SplitLeft(4)
	assert.Equal(t, 4, gutter.Width())
	assert.Equal(t, 76, text.Width())
	assert.True(t, text.Contains(ScreenPos{Row: 1, Col: 4}))
	assert.False(t, text.Contains(ScreenPos{Row: 1, Col: 3}))

	_, none := r.SplitTop(20)
	assert.True(t, none.IsEmpty())
}
