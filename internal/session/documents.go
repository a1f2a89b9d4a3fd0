package session

import (
	"context"

	"github.com/roach88/quire/internal/document"
)

// Working returns the working copy of the active document, including
// unsaved changes.
func (s *Session) Working() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Working()
}

// ActiveID returns the active document id, or "" when none is active.
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.ActiveID()
}

// Documents returns the collection, most recent first.
func (s *Session) Documents() []document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.List()
}

// CreateDocument creates a document and switches to it.
func (s *Session) CreateDocument(ctx context.Context, title string) (document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.docs.Create(ctx, title)
	if err != nil {
		return document.Document{}, err
	}
	if err := s.switchLocked(ctx, doc.ID); err != nil {
		return doc, err
	}
	return doc, nil
}

// SwitchDocument saves unsaved changes to the active document, then makes
// id active. History is reseeded with the new content and the render cache
// is cleared. If the save fails nothing changes.
func (s *Session) SwitchDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switchLocked(ctx, id)
}

func (s *Session) switchLocked(ctx context.Context, id string) error {
	doc, err := s.docs.SwitchTo(ctx, id)
	if err != nil {
		return err
	}
	s.history.Reset(doc.Content)
	s.renderer.ClearCache()
	s.autosave.Cancel()
	if s.autosave.Running() {
		s.autosave.Start(s.settings.Interval())
	}
	s.logger.Debug("active document changed", "id", id)
	return nil
}

// DeleteDocument removes id. Deleting the active document clears the
// working fields, history and render cache; no other document is selected.
func (s *Session) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := id == s.docs.ActiveID()
	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}
	if wasActive {
		s.autosave.Cancel()
		s.history.Reset("")
		s.renderer.ClearCache()
	}
	return nil
}

// RenameDocument sets the stored title of id.
func (s *Session) RenameDocument(ctx context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Rename(ctx, id, title)
}

// SetTitle sets the working title.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == s.docs.Working().Title || !s.docs.SetTitle(title) {
		return
	}
	if s.settings.AutoSave {
		s.autosave.Trigger()
	}
}

// AddTag adds a tag to the working document. Reports whether it was added.
func (s *Session) AddTag(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docs.AddTag(tag) {
		return false
	}
	if s.settings.AutoSave {
		s.autosave.Trigger()
	}
	return true
}

// RemoveTag removes a tag from the working document.
func (s *Session) RemoveTag(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.docs.RemoveTag(tag); err != nil {
		return err
	}
	if s.settings.AutoSave {
		s.autosave.Trigger()
	}
	return nil
}
