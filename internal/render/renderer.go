package render

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// EmptyPlaceholder is returned for empty or whitespace-only input.
const EmptyPlaceholder = `<p class="empty-placeholder">Start writing...</p>`

// Stats counts renderer activity since creation.
type Stats struct {
	Hits      int // served from cache
	Misses    int // converted by the chain
	Fallbacks int // converted by a stage after the first
	Failures  int // every stage failed; escaped text returned
}

// Renderer memoizes markdown→HTML conversion in front of a Chain.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Renderer struct {
	mu        sync.Mutex
	chain     *Chain
	cache     *Cache
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
	stats     Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithChain replaces the default converter chain.
func WithChain(c *Chain) Option {
	return func(r *Renderer) { r.chain = c }
}

// WithCacheSize sets the cache bound.
func WithCacheSize(n int) Option {
	return func(r *Renderer) { r.cache = NewCache(n) }
}

// WithSanitizer filters every converted document through policy before it
// is cached.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) { r.sanitizer = policy }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// SanitizePolicy is the policy used when sanitizing is enabled: user
// generated content rules plus the class attributes highlighting emits.
func SanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("data-language").OnElements("code")
	p.AllowAttrs("target").OnElements("a")
	return p
}

// DefaultChain returns goldmark (highlighted with style) followed by Simple.
func DefaultChain(style string, logger *slog.Logger) *Chain {
	return NewChain(logger, NewMarkdown(NewHighlighter(style)), Simple{})
}

// New creates a Renderer. Without options it uses DefaultChain("github"),
// a DefaultCacheSize cache and no sanitizer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.chain == nil {
		r.chain = DefaultChain("github", r.logger)
	}
	if r.cache == nil {
		r.cache = NewCache(DefaultCacheSize)
	}
	return r
}

// ToHTML converts markdown to HTML. It never fails: when every stage of the
// chain fails the escaped text is returned in a paragraph and not cached.
func (r *Renderer) ToHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyPlaceholder
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := CacheKey(text)
	if html, ok := r.cache.Get(key); ok {
		r.stats.Hits++
		return html
	}
	r.stats.Misses++

	html, stage, err := r.chain.Convert(text)
	if err != nil {
		r.stats.Failures++
		r.logger.Error("markdown conversion failed, returning escaped text",
			"error", err,
			"length", len(text),
		)
		return EscapeParagraph(text)
	}
	if stage > 0 {
		r.stats.Fallbacks++
	}

	if r.sanitizer != nil {
		html = r.sanitizer.Sanitize(html)
	}

	r.cache.Put(key, html)
	return html
}

// ClearCache drops every memoized conversion. Idempotent.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Clear()
}

// CacheLen returns the number of cached conversions.
func (r *Renderer) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Stats returns a copy of the activity counters.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
