package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "5:hello", CacheKey("hello"))

	long := strings.Repeat("a", 150)
	assert.Equal(t, "150:"+strings.Repeat("a", 100), CacheKey(long))

	// Length and prefix are counted in characters, not bytes.
	assert.Equal(t, "3:héé", CacheKey("héé"))
}

func TestCacheKey_CollidesOnSharedPrefixAndLength(t *testing.T) {
	base := strings.Repeat("x", 100)
	assert.Equal(t, CacheKey(base+"tail-one"), CacheKey(base+"tail-two"))
	assert.NotEqual(t, CacheKey(base+"a"), CacheKey(base+"ab"))
}

func TestCache_EvictsOldestInserted(t *testing.T) {
	c := NewCache(DefaultCacheSize)
	for i := 0; i < DefaultCacheSize; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
	}
	assert.Equal(t, DefaultCacheSize, c.Len())

	// A hit does not refresh position.
	_, ok := c.Get("k0")
	assert.True(t, ok)

	c.Put("k20", "v")
	assert.Equal(t, DefaultCacheSize, c.Len())

	_, ok = c.Get("k0")
	assert.False(t, ok, "oldest inserted key must be evicted")
	_, ok = c.Get("k1")
	assert.True(t, ok, "exactly one entry is evicted")
	assert.Equal(t, "k1", c.Keys()[0])
	assert.Equal(t, "k20", c.Keys()[DefaultCacheSize-1])
}

func TestCache_PutExistingKeepsPosition(t *testing.T) {
	c := NewCache(3)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("a", "3")

	assert.Equal(t, []string{"a", "b"}, c.Keys())
	v, _ := c.Get("a")
	assert.Equal(t, "3", v)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(3)
	c.Put("a", "1")
	c.Clear()
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_MinimumSize(t *testing.T) {
	c := NewCache(0)
	c.Put("a", "1")
	c.Put("b", "2")
	assert.Equal(t, []string{"b"}, c.Keys())
}
