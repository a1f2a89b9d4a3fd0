package render

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultCacheSize bounds the number of memoized conversions.
	DefaultCacheSize = 20

	// CacheKeyPrefix is the number of leading characters included in a key.
	CacheKeyPrefix = 100
)

// CacheKey builds the cache key for text: its length in characters, a
// colon, and its first CacheKeyPrefix characters.
func CacheKey(text string) string {
	return fmt.Sprintf("%d:%s", utf8.RuneCountInString(text), prefix(text, CacheKeyPrefix))
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Cache is a bounded map with FIFO eviction: when full, the oldest inserted
// key is evicted before a new key is added. Lookups do not affect order.
//
// Cache is not safe for concurrent use; Renderer guards it.
type Cache struct {
	max     int
	order   []string
	entries map[string]string
}

// NewCache creates a cache holding at most size entries (minimum 1).
func NewCache(size int) *Cache {
	if size < 1 {
		size = 1
	}
	return &Cache{
		max:     size,
		order:   make([]string, 0, size),
		entries: make(map[string]string, size),
	}
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key. Replacing an existing key keeps its position.
func (c *Cache) Put(key, value string) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order[0] = ""
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = value
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.order = make([]string, 0, c.max)
	clear(c.entries)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return len(c.order)
}

// Keys returns the keys in insertion order.
func (c *Cache) Keys() []string {
	return append([]string(nil), c.order...)
}
