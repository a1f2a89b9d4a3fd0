// Package history implements the linear undo/redo log for the active
// document's content.
//
// The log is a slice with a cursor. A new entry after one or more undos
// truncates everything beyond the cursor, so there is no redo across a
// divergent edit. The log never holds more than MaxSize entries.
package history

// MaxSize is the maximum number of entries retained.
const MaxSize = 50

// History is the undo/redo log.
//
// Invariant: 0 <= index < len(entries). A History always holds at least one
// entry; the zero value behaves as a log seeded with "".
//
// Thread-safety: not safe for concurrent use. The session serializes access.
type History struct {
	entries []string
	index   int
	max     int
}

// New creates a log seeded with content at index 0.
func New(content string) *History {
	return NewWithMax(content, MaxSize)
}

// NewWithMax creates a log with a custom bound. Bounds below 1 are raised
// to 1.
func NewWithMax(content string, max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{entries: []string{content}, max: max}
}

func (h *History) init() {
	if len(h.entries) == 0 {
		h.entries = []string{""}
		h.index = 0
	}
	if h.max < 1 {
		h.max = MaxSize
	}
}

// Record appends content as a new entry. It is a no-op when content equals
// the current entry. Returns true if an entry was added.
func (h *History) Record(content string) bool {
	h.init()
	if content == h.entries[h.index] {
		return false
	}

	h.entries = append(h.entries[:h.index+1], content)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
	h.index = len(h.entries) - 1
	return true
}

// Undo moves the cursor back one entry and returns the content there.
// ok is false at the start of the log.
func (h *History) Undo() (content string, ok bool) {
	h.init()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo moves the cursor forward one entry and returns the content there.
// ok is false at the end of the log.
func (h *History) Redo() (content string, ok bool) {
	h.init()
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// Reset reseeds the log with a single entry.
func (h *History) Reset(content string) {
	h.init()
	h.entries = []string{content}
	h.index = 0
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// Len returns the number of entries.
func (h *History) Len() int {
	h.init()
	return len(h.entries)
}

// Current returns the entry at the cursor.
func (h *History) Current() string {
	h.init()
	return h.entries[h.index]
}

// Entries returns a copy of the log.
func (h *History) Entries() []string {
	h.init()
	return append([]string(nil), h.entries...)
}
