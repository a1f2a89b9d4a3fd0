package mdtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		pattern     string
		replacement string
		opts        ReplaceOptions
		want        string
	}{
		{"case-insensitive default", "Go go GO", "go", "x", ReplaceOptions{}, "x x x"},
		{"case-sensitive", "Go go GO", "go", "x", ReplaceOptions{CaseSensitive: true}, "Go x GO"},
		{"literal metacharacters", "a.b a+b", "a.b", "c", ReplaceOptions{}, "c a+b"},
		{"literal dollar in replacement", "cost", "cost", "$1", ReplaceOptions{}, "$1"},
		{"whole word", "cat concat cat.", "cat", "dog", ReplaceOptions{WholeWord: true}, "dog concat dog."},
		{"regex groups", "2024-01-05", `(\d+)-(\d+)-(\d+)`, "$3/$2/$1", ReplaceOptions{UseRegex: true}, "05/01/2024"},
		{"regex whole word", "is this island", `is\w*`, "X", ReplaceOptions{UseRegex: true, WholeWord: true}, "X this X"},
		{"no match", "abc", "z", "y", ReplaceOptions{}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replace(tt.text, tt.pattern, tt.replacement, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplace_Errors(t *testing.T) {
	got, err := Replace("abc", "", "x", ReplaceOptions{})
	assert.ErrorIs(t, err, ErrEmptyPattern)
	assert.Equal(t, "abc", got)

	got, err = Replace("abc", "(", "x", ReplaceOptions{UseRegex: true})
	assert.Error(t, err)
	assert.Equal(t, "abc", got)
}

func TestStripMarkdown(t *testing.T) {
	in := "# Title\n**bold** _it_ ~~s~~ `c` [l](u)"
	assert.Equal(t, " Title\nbold it s c lu", StripMarkdown(in))
}
