// Package session is the editor-facing facade. It composes the document
// store, undo/redo history, snapshot manager, render pipeline and autosave
// scheduler into the operations an editor UI drives.
//
// A Session is logically single-threaded. Every public method and every
// autosave timer callback runs under one mutex, so document state, the
// history log and the render cache only ever see a serialized sequence of
// calls.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/quire/internal/autosave"
	"github.com/roach88/quire/internal/clock"
	"github.com/roach88/quire/internal/config"
	"github.com/roach88/quire/internal/document"
	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/history"
	"github.com/roach88/quire/internal/ident"
	"github.com/roach88/quire/internal/kv"
	"github.com/roach88/quire/internal/render"
	"github.com/roach88/quire/internal/snapshot"
)

// Session is the editor state engine.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Session struct {
	mu sync.Mutex

	kv     kv.KV
	clock  clock.Clock
	logger *slog.Logger

	docs      *document.Store
	history   *history.History
	snapshots *snapshot.Manager
	renderer  *render.Renderer
	autosave  *autosave.Scheduler

	theme    string
	settings config.Settings
}

type options struct {
	clock    clock.Clock
	docIDs   ident.Generator
	snapIDs  ident.Generator
	logger   *slog.Logger
	renderer *render.Renderer
	debounce time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithClock sets the clock used for timestamps and autosave timers.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDocumentIDs sets the document id generator.
func WithDocumentIDs(g ident.Generator) Option {
	return func(o *options) { o.docIDs = g }
}

// WithSnapshotIDs sets the snapshot id generator.
func WithSnapshotIDs(g ident.Generator) Option {
	return func(o *options) { o.snapIDs = g }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithDebounce sets the autosave debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// New creates a session over store. Call Initialize before use.
func New(store kv.KV, opts ...Option) *Session {
	o := options{
		clock:    clock.System{},
		docIDs:   ident.UUIDv7Generator{},
		snapIDs:  ident.UUIDv7Generator{},
		logger:   slog.Default(),
		debounce: autosave.DefaultDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = render.New(render.WithLogger(o.logger))
	}

	s := &Session{
		kv:        store,
		clock:     o.clock,
		logger:    o.logger,
		docs:      document.New(store, o.clock, o.docIDs, document.WithLogger(o.logger)),
		history:   history.New(""),
		snapshots: snapshot.NewManager(store, o.clock, o.snapIDs, snapshot.WithLogger(o.logger)),
		renderer:  o.renderer,
		theme:     config.DefaultTheme,
		settings:  config.DefaultSettings(),
	}
	s.autosave = autosave.New(o.clock, s.autosaveTick, s.Dirty,
		autosave.WithDelay(o.debounce),
		autosave.WithLogger(o.logger),
	)
	return s
}

// Initialize loads the theme, settings, documents and snapshots, seeds a
// document when the collection is empty, activates the most recent
// document and starts autosave.
//
// Each part loads independently. A part that fails keeps its prior
// in-memory state and its error is included in the returned error; the
// session stays usable.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.loadThemeLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.loadSettingsLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.snapshots.Load(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := s.docs.Load(ctx); err != nil {
		errs = append(errs, err)
	} else if s.docs.ActiveID() == "" && s.docs.Len() > 0 {
		if err := s.switchLocked(ctx, s.docs.List()[0].ID); err != nil {
			errs = append(errs, err)
		}
	}

	s.restartAutosaveLocked()

	err := errors.Join(errs...)
	if err != nil {
		s.logger.Error("session initialized with errors", "error", err)
	} else {
		s.logger.Info("session initialized",
			"documents", s.docs.Len(),
			"snapshots", s.snapshots.Len(),
			"active", s.docs.ActiveID(),
		)
	}
	return err
}

// Close stops autosave. Unsaved changes are not flushed; call Save first.
func (s *Session) Close() {
	s.autosave.Stop()
}

// Save persists the theme and settings, saves the active document and,
// when a document was saved, records a snapshot of it. A successful save
// drops any pending debounce.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session) saveLocked(ctx context.Context) error {
	if err := s.kv.Set(ctx, config.ThemeKey, s.theme); err != nil {
		return failure.Save("persist theme", err)
	}
	if err := s.kv.Set(ctx, config.SettingsKey, s.settings); err != nil {
		return failure.Save("persist settings", err)
	}

	saved, err := s.docs.Save(ctx)
	if err != nil {
		return err
	}
	if !saved {
		return nil
	}

	s.autosave.Cancel()

	w := s.docs.Working()
	if _, err := s.snapshots.Create(ctx, w.Title, w.Content); err != nil {
		return err
	}
	return nil
}

// autosaveTick is the autosave scheduler's save function.
func (s *Session) autosaveTick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docs.Dirty() {
		return nil
	}
	return s.saveLocked(context.Background())
}

// restartAutosaveLocked starts or stops the interval to match settings.
func (s *Session) restartAutosaveLocked() {
	if s.settings.AutoSave && s.settings.AutoSaveInterval > 0 {
		s.autosave.Start(s.settings.Interval())
		return
	}
	s.autosave.Stop()
}

// touchLocked runs after every accepted content mutation.
func (s *Session) touchLocked() {
	s.renderer.ClearCache()
	if s.settings.AutoSave {
		s.autosave.Trigger()
	}
}

// Dirty reports whether the working document has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Dirty()
}

// LastSaved returns the time of the last successful save.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.LastSaved()
}

// AutosaveRunning reports whether the autosave interval is active.
func (s *Session) AutosaveRunning() bool {
	return s.autosave.Running()
}

// AutosavePending reports whether a debounced save is scheduled.
func (s *Session) AutosavePending() bool {
	return s.autosave.Pending()
}
