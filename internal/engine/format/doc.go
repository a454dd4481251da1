// Package format implements selection-scoped markdown formatting.
//
// Every operation is a pure function of the current buffer value: it takes
// the buffer and a selection and returns the new buffer. Nothing is mutated
// in place and nothing can fail. Selections that fall outside the buffer are
// clamped, and kinds the engine does not know pass the selection through
// unchanged.
//
//	out := format.Apply("hello world", format.Selection{Start: 0, End: 5}, format.Bold)
//	// out == "**hello** world"
//
// Link, image and table insertion append to the end of the buffer instead of
// replacing the selection.
//
// # Custom kinds
//
// An Engine can carry extra kinds registered at runtime (for example by Lua
// plugins). Builtin kinds cannot be overridden.
package format
