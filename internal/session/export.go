package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/mdtext"
)

// Export formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatText     = "text"
	FormatJSON     = "json"
)

// Formats lists the supported export formats.
var Formats = []string{FormatMarkdown, FormatHTML, FormatText, FormatJSON}

// ExportStats is the stats object embedded in JSON exports.
type ExportStats struct {
	mdtext.Stats
	LastSaved         *time.Time `json:"lastSaved"`
	HasUnsavedChanges bool       `json:"hasUnsavedChanges"`
}

// Export is the JSON export document.
type Export struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Tags       []string    `json:"tags"`
	CreatedAt  *time.Time  `json:"createdAt"`
	ModifiedAt *time.Time  `json:"modifiedAt"`
	Stats      ExportStats `json:"stats"`
}

// ExportAs renders the working document in format. An unsupported format
// returns EXPORT_FAILED and changes nothing.
func (s *Session) ExportAs(format string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.docs.Working()
	switch format {
	case FormatMarkdown:
		return w.Content, nil
	case FormatHTML:
		return s.renderer.ToHTML(w.Content), nil
	case FormatText:
		return mdtext.StripMarkdown(w.Content), nil
	case FormatJSON:
		out := Export{
			Title:      w.Title,
			Content:    w.Content,
			Tags:       w.Tags,
			CreatedAt:  timePtr(w.CreatedAt),
			ModifiedAt: timePtr(w.ModifiedAt),
			Stats: ExportStats{
				Stats:             mdtext.Compute(w.Content),
				LastSaved:         timePtr(s.docs.LastSaved()),
				HasUnsavedChanges: s.docs.Dirty(),
			},
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", failure.Export("encode json export", err)
		}
		return string(data), nil
	default:
		return "", failure.Export(fmt.Sprintf("unsupported format %q", format), nil)
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
