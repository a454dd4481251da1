// Package history provides linear undo/redo over buffer snapshots.
//
// The history is an ordered log of buffer values with a cursor naming the
// value currently shown:
//
//	h := history.New("x", 1000) // Max 1000 entries
//
//	h.Record("xy")
//	h.Record("xyz")
//
//	text, ok := h.Undo() // "xy", true
//	text, ok = h.Redo()  // "xyz", true
//
// # Branching
//
// Recording after one or more undos discards every entry after the cursor
// before appending. The discarded branch cannot be redone.
//
// # Capacity
//
// When the log grows past its maximum the oldest entries are dropped and the
// cursor shifts with them. The value at the cursor is never dropped.
package history
