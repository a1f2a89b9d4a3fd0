package mdtext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Stats are the computed document statistics.
type Stats struct {
	Characters  int `json:"characters"`
	Words       int `json:"words"`
	Lines       int `json:"lines"`
	Paragraphs  int `json:"paragraphs"`
	ReadingTime int `json:"readingTime"` // minutes, rounded up
}

// Selection are the statistics of a selected span of text.
type Selection struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
	Lines      int `json:"lines"`
}

// Compute returns the statistics of text. Characters are counted as
// Unicode code points; words are whitespace-separated runs.
func Compute(text string) Stats {
	words := len(strings.Fields(text))
	return Stats{
		Characters:  utf8.RuneCountInString(text),
		Words:       words,
		Lines:       strings.Count(text, "\n") + 1,
		Paragraphs:  countParagraphs(text),
		ReadingTime: (words + WordsPerMinute - 1) / WordsPerMinute,
	}
}

// SelectionStats returns statistics for a selection. ok is false for an
// empty selection.
func SelectionStats(text string) (sel Selection, ok bool) {
	if text == "" {
		return Selection{}, false
	}
	return Selection{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
		Lines:      strings.Count(text, "\n") + 1,
	}, true
}

func countParagraphs(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := 0
	for _, p := range paragraphSplitRe.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
