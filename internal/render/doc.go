// Package render converts markdown to HTML for the editor preview and HTML
// export.
//
// Conversion runs through an ordered Chain of converters. Each stage is
// invoked only when the previous one failed (returned an error or
// panicked):
//
//  1. Markdown: goldmark with GFM, hard line breaks and chroma syntax
//     highlighting for fenced code
//  2. Simple: a hand-written substitution converter covering the same
//     feature subset
//
// When every stage fails the Renderer returns the HTML-escaped text in a
// single paragraph. Renderer.ToHTML therefore never fails.
//
// # Cache
//
// Results are memoized in a FIFO cache bounded to DefaultCacheSize entries.
// The key is the text's length plus its first CacheKeyPrefix characters, so
// two texts of equal length sharing that prefix collide. Callers must clear
// the cache on every content mutation; the Session does so.
package render
