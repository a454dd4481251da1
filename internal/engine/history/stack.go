package history

import "time"

// DefaultMaxEntries is used when a non-positive maximum is given.
const DefaultMaxEntries = 1000

// entry wraps a snapshot with metadata.
type entry struct {
	text      string
	timestamp time.Time
}

// History is a linear log of buffer snapshots with a movable cursor.
// It is owned by a single editing session and is not safe for concurrent use.
type History struct {
	entries []entry
	cursor  int

	// Configuration
	maxEntries int
}

// New creates a history whose only entry is initial.
func New(initial string, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		entries:    []entry{{text: initial, timestamp: time.Now()}},
		maxEntries: maxEntries,
	}
}

// Record appends text after the cursor and moves the cursor to it.
// Entries after the cursor are discarded first.
func (h *History) Record(text string) {
	h.entries = append(h.entries[:h.cursor+1], entry{
		text:      text,
		timestamp: time.Now(),
	})
	h.cursor = len(h.entries) - 1
	h.trim()
}

// trim drops entries beyond maxEntries, oldest first.
// The entry at the cursor is always kept; if the cursor is too close to the
// start, redo entries are dropped from the end instead.
func (h *History) trim() {
	excess := len(h.entries) - h.maxEntries
	if excess <= 0 {
		return
	}
	front := min(excess, h.cursor)
	kept := make([]entry, 0, h.maxEntries)
	kept = append(kept, h.entries[front:front+h.maxEntries]...)
	h.entries = kept
	h.cursor -= front
}

// Undo moves the cursor back one entry and returns the value there.
// Returns false and the current value if there is nothing to undo.
func (h *History) Undo() (string, bool) {
	if h.cursor == 0 {
		return h.Current(), false
	}
	h.cursor--
	return h.entries[h.cursor].text, true
}

// Redo moves the cursor forward one entry and returns the value there.
// Returns false and the current value if there is nothing to redo.
func (h *History) Redo() (string, bool) {
	if h.cursor == len(h.entries)-1 {
		return h.Current(), false
	}
	h.cursor++
	return h.entries[h.cursor].text, true
}

// Current returns the value at the cursor.
func (h *History) Current() string {
	return h.entries[h.cursor].text
}

// Cursor returns the cursor index.
func (h *History) Cursor() int {
	return h.cursor
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	return h.cursor
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	return len(h.entries) - 1 - h.cursor
}

// Reset discards all entries and starts over from text.
func (h *History) Reset(text string) {
	h.entries = []entry{{text: text, timestamp: time.Now()}}
	h.cursor = 0
}

// Snapshots returns a copy of all recorded values, oldest first.
func (h *History) Snapshots() []string {
	result := make([]string, len(h.entries))
	for i, e := range h.entries {
		result[i] = e.text
	}
	return result
}

// Timestamp returns when the value at the cursor was recorded.
func (h *History) Timestamp() time.Time {
	return h.entries[h.cursor].timestamp
}

// SetMaxEntries changes the maximum number of entries.
// If the log is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.maxEntries = max
	h.trim()
}

// MaxEntries returns the maximum number of entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
