package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilePosition(t *testing.T) {
	src := "ab\ncdef\n\ng"
	f := NewFile("x.tn", len(src))
	// line starts as the scanner would register them
	f.AddLine(3)
	f.AddLine(8)
	f.AddLine(9)

	cases := []struct {
		off       int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline belongs to its line
		{3, 2, 1},
		{6, 2, 4},
		{8, 3, 1},
		{9, 4, 1},
		{10, 4, 2},
	}
	for _, c := range cases {
		pos := f.Position(Pos(c.off))
		assert.Equal(t, c.line, pos.Line, "offset %d", c.off)
		assert.Equal(t, c.col, pos.Col, "offset %d", c.off)
		assert.Equal(t, c.off, pos.Offset, "offset %d", c.off)
		assert.Equal(t, "x.tn", pos.Filename)
	}
}

func TestFilePositionInvalid(t *testing.T) {
	f := NewFile("x.tn", 10)
	pos := f.Position(NoPos)
	assert.Equal(t, 0, pos.Line)
	assert.Equal(t, "x.tn", pos.Filename)
}

func TestFileAddLineOutOfOrder(t *testing.T) {
	f := NewFile("x.tn", 10)
	f.AddLine(4)
	f.AddLine(2) // ignored, offsets must increase
	f.AddLine(4) // ignored, duplicate
	pos := f.Position(Pos(5))
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Col)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "x.tn:2:4", Position{Filename: "x.tn", Line: 2, Col: 4}.String())
	assert.Equal(t, "2:4", Position{Line: 2, Col: 4}.String())
	assert.Equal(t, "x.tn", Position{Filename: "x.tn"}.String())
	assert.Equal(t, "-", Position{}.String())
}
