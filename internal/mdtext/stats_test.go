package mdtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	text := "# Title\n\nOne two three.\nFour.\n\n\n  \nLast paragraph"
	s := Compute(text)

	assert.Equal(t, len(text), s.Characters)
	assert.Equal(t, 8, s.Words)
	assert.Equal(t, 8, s.Lines)
	assert.Equal(t, 3, s.Paragraphs)
	assert.Equal(t, 1, s.ReadingTime)
}

func TestCompute_Empty(t *testing.T) {
	assert.Equal(t, Stats{Lines: 1}, Compute(""))
	assert.Equal(t, 0, Compute("   \n\n").Paragraphs)
}

func TestCompute_ReadingTimeRoundsUp(t *testing.T) {
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("w ", n)) }

	assert.Equal(t, 1, Compute(words(200)).ReadingTime)
	assert.Equal(t, 2, Compute(words(201)).ReadingTime)
	assert.Equal(t, 3, Compute(words(600)).ReadingTime)
}

func TestCompute_CountsRunes(t *testing.T) {
	assert.Equal(t, 3, Compute("héé").Characters)
}

func TestSelectionStats(t *testing.T) {
	_, ok := SelectionStats("")
	assert.False(t, ok)

	sel, ok := SelectionStats(" two words\nand more ")
	assert.True(t, ok)
	assert.Equal(t, Selection{Characters: 20, Words: 4, Lines: 2}, sel)
}
