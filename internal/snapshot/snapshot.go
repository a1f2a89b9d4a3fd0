// Package snapshot keeps a bounded, most-recent-first sequence of document
// backups, persisted independently of the document collection.
package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/quire/internal/clock"
	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/ident"
	"github.com/roach88/quire/internal/kv"
)

const (
	// Key is the persistence key holding the whole sequence.
	Key = "snapshots"

	// MaxSnapshots bounds the sequence; the oldest entry is evicted first.
	MaxSnapshots = 20

	// SummaryLength is the number of characters of content kept as summary.
	SummaryLength = 100
)

// Snapshot is an immutable copy of a document's title and content.
type Snapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
}

// Manager owns the snapshot sequence.
//
// Thread-safety: not safe for concurrent use. The session serializes access.
type Manager struct {
	store  kv.KV
	clock  clock.Clock
	ids    ident.Generator
	logger *slog.Logger
	items  []Snapshot
	max    int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMax overrides MaxSnapshots.
func WithMax(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// NewManager creates an empty manager. Call Load to read persisted state.
func NewManager(store kv.KV, clk clock.Clock, ids ident.Generator, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		clock:  clk,
		ids:    ids,
		logger: slog.Default(),
		max:    MaxSnapshots,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory sequence with the persisted one. On failure
// the in-memory sequence is left untouched and a LOAD_FAILED error is
// returned.
func (m *Manager) Load(ctx context.Context) error {
	var items []Snapshot
	found, err := m.store.Get(ctx, Key, &items)
	if err != nil {
		return failure.Load("read snapshots", err)
	}
	if !found {
		items = nil
	}
	if len(items) > m.max {
		items = items[:m.max]
	}
	m.items = items
	m.logger.Debug("snapshots loaded", "count", len(items))
	return nil
}

// Create captures title and content as a new snapshot at the head of the
// sequence and persists the sequence. The tail entry is dropped when the
// bound is exceeded.
func (m *Manager) Create(ctx context.Context, title, content string) (Snapshot, error) {
	snap := Snapshot{
		ID:        m.ids.Generate(),
		Timestamp: m.clock.Now().UTC(),
		Title:     title,
		Summary:   summarize(content),
		Content:   content,
	}

	next := make([]Snapshot, 0, len(m.items)+1)
	next = append(next, snap)
	next = append(next, m.items...)
	if len(next) > m.max {
		next = next[:m.max]
	}

	if err := m.store.Set(ctx, Key, next); err != nil {
		return Snapshot{}, failure.Save("persist snapshots", err)
	}
	m.items = next

	m.logger.Debug("snapshot created", "id", snap.ID, "title", title, "count", len(next))
	return snap, nil
}

// Delete removes the snapshot with id and persists the remaining sequence.
func (m *Manager) Delete(ctx context.Context, id string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return failure.NotFound("snapshot", id)
	}

	next := make([]Snapshot, 0, len(m.items)-1)
	next = append(next, m.items[:idx]...)
	next = append(next, m.items[idx+1:]...)

	if err := m.store.Set(ctx, Key, next); err != nil {
		return failure.Save("persist snapshots", err)
	}
	m.items = next
	return nil
}

// Get returns the snapshot with id.
func (m *Manager) Get(id string) (Snapshot, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		return Snapshot{}, failure.NotFound("snapshot", id)
	}
	return m.items[idx], nil
}

// List returns a copy of the sequence, most recent first.
func (m *Manager) List() []Snapshot {
	return append([]Snapshot(nil), m.items...)
}

// Len returns the number of snapshots.
func (m *Manager) Len() int { return len(m.items) }

func (m *Manager) indexOf(id string) int {
	for i, s := range m.items {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryLength {
		return content
	}
	return string(runes[:SummaryLength])
}
