package session

import (
	"context"

	htmlconv "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/mdtext"
	"github.com/roach88/quire/internal/render"
	"github.com/roach88/quire/internal/template"
)

var importer = htmlconv.NewConverter(
	htmlconv.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Content returns the working content.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Working().Content
}

// UpdateContent replaces the working content. When text differs from the
// current content it is recorded in history, the document is marked dirty,
// the render cache is cleared and a debounced save is scheduled. Reports
// whether the content changed; with no active document nothing changes.
func (s *Session) UpdateContent(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(text)
}

func (s *Session) updateLocked(text string) bool {
	if s.docs.ActiveID() == "" || text == s.docs.Working().Content {
		return false
	}
	s.history.Record(text)
	s.docs.SetContent(text)
	s.touchLocked()
	return true
}

// Undo moves one step back in history. Reports whether it moved.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.docs.SetContent(content)
	s.renderer.ClearCache()
	return true
}

// Redo moves one step forward in history. Reports whether it moved.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.docs.SetContent(content)
	s.renderer.ClearCache()
	return true
}

// CanUndo reports whether Undo would move.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would move.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// HistoryIndex returns the history cursor and the number of entries.
func (s *Session) HistoryIndex() (index, length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Index(), s.history.Len()
}

// HistoryEntries returns a copy of the history log.
func (s *Session) HistoryEntries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// InsertTemplate inserts the canned body for kind: appended after a blank
// line when there is content, replacing it otherwise. An unknown kind is a
// no-op. Reports whether the content changed.
func (s *Session) InsertTemplate(kind string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok, err := template.Apply(s.docs.Working().Content, kind, s.clock.Now())
	if err != nil || !ok {
		return false, err
	}
	return s.updateLocked(next), nil
}

// FormatDocument applies cosmetic normalization. The content is updated
// only if formatting changed it.
func (s *Session) FormatDocument() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(mdtext.Format(s.docs.Working().Content))
}

// SearchAndReplace replaces every match of pattern. Reports whether a
// replacement occurred. An invalid pattern leaves the content unchanged.
func (s *Session) SearchAndReplace(pattern, replacement string, opts mdtext.ReplaceOptions) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mdtext.Replace(s.docs.Working().Content, pattern, replacement, opts)
	if err != nil {
		return false, err
	}
	return s.updateLocked(next), nil
}

// Structure returns the heading outline of the working content.
func (s *Session) Structure() []*mdtext.Heading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mdtext.Outline(s.docs.Working().Content)
}

// Stats returns statistics of the working content.
func (s *Session) Stats() mdtext.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mdtext.Compute(s.docs.Working().Content)
}

// SelectionStats returns statistics for a selected span.
func (s *Session) SelectionStats(selected string) (mdtext.Selection, bool) {
	return mdtext.SelectionStats(selected)
}

// ImportMarkdown replaces the content with text and saves.
func (s *Session) ImportMarkdown(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs.ActiveID() == "" {
		return failure.NoActiveDocument()
	}
	s.updateLocked(text)
	return s.saveLocked(ctx)
}

// ImportHTML converts html to markdown, replaces the content with it and
// saves. A conversion failure leaves the content unchanged.
func (s *Session) ImportHTML(ctx context.Context, html string) error {
	md, err := importer.ConvertString(html)
	if err != nil {
		return failure.Convert("convert html to markdown", err)
	}
	return s.ImportMarkdown(ctx, md)
}

// ClearContent empties the content and saves.
func (s *Session) ClearContent(ctx context.Context) error {
	return s.ImportMarkdown(ctx, "")
}

// HTML renders the working content.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.ToHTML(s.docs.Working().Content)
}

// ConvertToHTML renders arbitrary text through the session's cache.
func (s *Session) ConvertToHTML(text string) string {
	return s.renderer.ToHTML(text)
}

// ClearCache drops every cached rendering.
func (s *Session) ClearCache() {
	s.renderer.ClearCache()
}

// RenderStats are the renderer counters plus the current cache size.
type RenderStats struct {
	render.Stats
	Cached int
}

// RenderStats returns the renderer's counters and current cache size.
func (s *Session) RenderStats() RenderStats {
	return RenderStats{Stats: s.renderer.Stats(), Cached: s.renderer.CacheLen()}
}
