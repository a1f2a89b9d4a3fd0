// Package document owns the document collection, the active-document
// pointer and the working copy of the active document's fields.
//
// Mutations that touch the collection are persist-then-commit: the new
// collection is built on a copy, written through the KV service, and only
// assigned once the write succeeded. A rejected write therefore leaves the
// in-memory state exactly as it was.
package document

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/roach88/quire/internal/clock"
	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/ident"
	"github.com/roach88/quire/internal/kv"
)

const (
	// Key is the persistence key holding the whole collection.
	Key = "documents"

	// DefaultTitle replaces empty titles.
	DefaultTitle = "Untitled"
)

// Document is a stored markdown document.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Clone returns a copy that shares no slices with d.
func (d Document) Clone() Document {
	d.Tags = append([]string{}, d.Tags...)
	return d
}

// Store is the document collection plus the working copy of the active
// document.
//
// Thread-safety: not safe for concurrent use. The session serializes access.
type Store struct {
	kv     kv.KV
	clock  clock.Clock
	ids    ident.Generator
	logger *slog.Logger

	docs      []Document
	activeID  string
	working   Document
	dirty     bool
	lastSaved time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store. Call Load to read the persisted collection.
func New(store kv.KV, clk clock.Clock, ids ident.Generator, opts ...Option) *Store {
	s := &Store{
		kv:      store,
		clock:   clk,
		ids:     ids,
		logger:  slog.Default(),
		working: Document{Tags: []string{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted one. An empty or missing
// collection is seeded with one untitled document.
//
// On LOAD_FAILED or SAVE_FAILED (seeding rejected) the prior in-memory
// state is left intact. If the active document no longer exists after a
// successful load, the active pointer and working fields are cleared.
func (s *Store) Load(ctx context.Context) error {
	var docs []Document
	if _, err := s.kv.Get(ctx, Key, &docs); err != nil {
		return failure.Load("read documents", err)
	}

	for i := range docs {
		docs[i] = normalize(docs[i])
	}

	if len(docs) == 0 {
		seed := s.newDocument(DefaultTitle)
		docs = []Document{seed}
		if err := s.persist(ctx, docs); err != nil {
			return err
		}
		s.logger.Info("seeded empty collection", "id", seed.ID)
	}

	s.docs = docs
	if s.activeID != "" && s.indexOf(s.activeID) < 0 {
		s.clearWorking()
	}
	s.logger.Debug("documents loaded", "count", len(docs))
	return nil
}

// Create inserts a new empty document at the head of the collection and
// persists it. It does not change the active document.
func (s *Store) Create(ctx context.Context, title string) (Document, error) {
	doc := s.newDocument(title)

	next := make([]Document, 0, len(s.docs)+1)
	next = append(next, doc)
	next = append(next, s.docs...)

	if err := s.persist(ctx, next); err != nil {
		return Document{}, err
	}
	s.docs = next

	s.logger.Debug("document created", "id", doc.ID, "title", doc.Title)
	return doc.Clone(), nil
}

// Delete removes the document with id. Deleting the active document clears
// the active pointer and every working field; no other document is
// selected.
func (s *Store) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return failure.NotFound("document", id)
	}

	next := make([]Document, 0, len(s.docs)-1)
	next = append(next, s.docs[:idx]...)
	next = append(next, s.docs[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.docs = next

	if id == s.activeID {
		s.clearWorking()
	}
	s.logger.Debug("document deleted", "id", id)
	return nil
}

// SwitchTo makes id the active document and loads its fields into the
// working copy. Unsaved changes to the current document are saved first;
// if that save fails the switch is aborted and the error returned.
func (s *Store) SwitchTo(ctx context.Context, id string) (Document, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Document{}, failure.NotFound("document", id)
	}

	if s.activeID != "" && s.dirty {
		if _, err := s.Save(ctx); err != nil {
			return Document{}, err
		}
		// Save rewrote the collection.
		idx = s.indexOf(id)
	}

	s.activeID = id
	s.working = s.docs[idx].Clone()
	s.dirty = false

	s.logger.Debug("switched document", "id", id)
	return s.working.Clone(), nil
}

// Save writes the working fields back into the active document, stamps
// modifiedAt and persists the collection. It reports whether a document
// was saved; with no active document it is a no-op.
func (s *Store) Save(ctx context.Context) (bool, error) {
	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return false, nil
	}

	now := s.clock.Now().UTC()
	doc := s.working.Clone()
	doc.ID = s.activeID
	doc.CreatedAt = s.docs[idx].CreatedAt
	doc.ModifiedAt = now
	doc = normalize(doc)

	next := slices.Clone(s.docs)
	next[idx] = doc

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.docs = next
	s.working.Title = doc.Title
	s.working.ModifiedAt = now
	s.lastSaved = now
	s.dirty = false

	s.logger.Debug("document saved", "id", doc.ID, "length", len(doc.Content))
	return true, nil
}

// Rename sets the stored title of id. If id is active the working title is
// updated too.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return failure.NotFound("document", id)
	}

	doc := s.docs[idx].Clone()
	doc.Title = title
	doc.ModifiedAt = s.clock.Now().UTC()
	doc = normalize(doc)

	next := slices.Clone(s.docs)
	next[idx] = doc

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.docs = next

	if id == s.activeID {
		s.working.Title = doc.Title
	}
	return nil
}

// SetContent replaces the working content and marks the store dirty.
// Without an active document there is nothing to edit and it reports false.
func (s *Store) SetContent(content string) bool {
	if s.activeID == "" {
		return false
	}
	s.working.Content = content
	s.dirty = true
	return true
}

// SetTitle replaces the working title and marks the store dirty. Reports
// false without an active document.
func (s *Store) SetTitle(title string) bool {
	if s.activeID == "" {
		return false
	}
	s.working.Title = title
	s.dirty = true
	return true
}

// AddTag appends tag to the working tags. Blank and duplicate tags are
// ignored, as is any tag while no document is active. Reports whether the
// tag was added.
func (s *Store) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if s.activeID == "" || tag == "" || slices.Contains(s.working.Tags, tag) {
		return false
	}
	s.working.Tags = append(slices.Clone(s.working.Tags), tag)
	s.dirty = true
	return true
}

// RemoveTag removes tag from the working tags.
func (s *Store) RemoveTag(tag string) error {
	if s.activeID == "" {
		return failure.NoActiveDocument()
	}
	idx := slices.Index(s.working.Tags, tag)
	if idx < 0 {
		return failure.NotFound("tag", tag)
	}
	s.working.Tags = slices.Delete(slices.Clone(s.working.Tags), idx, idx+1)
	s.dirty = true
	return nil
}

// List returns a copy of the collection, most recent first.
func (s *Store) List() []Document {
	out := make([]Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.Clone()
	}
	return out
}

// Get returns the stored document with id.
func (s *Store) Get(id string) (Document, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Document{}, failure.NotFound("document", id)
	}
	return s.docs[idx].Clone(), nil
}

// Active returns the stored record of the active document.
func (s *Store) Active() (Document, bool) {
	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return Document{}, false
	}
	return s.docs[idx].Clone(), true
}

// ActiveID returns the active document id, or "" when none is active.
func (s *Store) ActiveID() string { return s.activeID }

// Working returns the working copy of the active document's fields,
// including unsaved changes.
func (s *Store) Working() Document { return s.working.Clone() }

// Dirty reports whether the working copy has unsaved changes.
func (s *Store) Dirty() bool { return s.dirty }

// LastSaved returns the time of the last successful save, or the zero time.
func (s *Store) LastSaved() time.Time { return s.lastSaved }

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.docs) }

func (s *Store) newDocument(title string) Document {
	now := s.clock.Now().UTC()
	return normalize(Document{
		ID:         s.ids.Generate(),
		Title:      title,
		Tags:       []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	})
}

func (s *Store) persist(ctx context.Context, docs []Document) error {
	if err := s.kv.Set(ctx, Key, docs); err != nil {
		s.logger.Error("persist documents failed", "error", err)
		return failure.Save("persist documents", err)
	}
	return nil
}

func (s *Store) clearWorking() {
	s.activeID = ""
	s.working = Document{Tags: []string{}}
	s.dirty = false
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.docs, func(d Document) bool { return d.ID == id })
}

func normalize(d Document) Document {
	if strings.TrimSpace(d.Title) == "" {
		d.Title = DefaultTitle
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}
