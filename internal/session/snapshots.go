package session

import (
	"context"
	"strings"

	"github.com/roach88/quire/internal/document"
	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/snapshot"
)

// Snapshots returns the snapshot sequence, most recent first.
func (s *Session) Snapshots() []snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.List()
}

// CreateSnapshot records the working title and content.
func (s *Session) CreateSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.docs.Working()
	title := w.Title
	if strings.TrimSpace(title) == "" {
		title = document.DefaultTitle
	}
	return s.snapshots.Create(ctx, title, w.Content)
}

// RestoreSnapshot replaces the working content and title with the
// snapshot's. The restored content is pushed into history as a new entry
// and the document is marked dirty. Restoring needs an active document.
func (s *Session) RestoreSnapshot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshots.Get(id)
	if err != nil {
		return err
	}
	if s.docs.ActiveID() == "" {
		return failure.NoActiveDocument()
	}
	s.history.Record(snap.Content)
	s.docs.SetContent(snap.Content)
	s.docs.SetTitle(snap.Title)
	s.renderer.ClearCache()
	return nil
}

// DeleteSnapshot removes a snapshot.
func (s *Session) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.Delete(ctx, id)
}
