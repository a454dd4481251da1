package format

import (
	"fmt"
	"unicode/utf8"
)

// Selection is a contiguous byte range [Start, End) within a buffer.
// It is supplied fresh for every operation and never stored by the engine.
type Selection struct {
	Start int
	End   int
}

// NewSelection creates a selection from start and end offsets.
func NewSelection(start, end int) Selection {
	return Selection{Start: start, End: end}
}

// Caret returns an empty selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the selection has zero length.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Clamp returns the selection made valid for buf.
// Reversed bounds are swapped, offsets are limited to [0, len(buf)] and
// moved back to the start of the rune they fall into.
func (s Selection) Clamp(buf string) Selection {
	start, end := s.Start, s.End
	if start > end {
		start, end = end, start
	}
	start = clampOffset(buf, start)
	end = clampOffset(buf, end)
	return Selection{Start: start, End: end}
}

// Text returns the selected substring of buf after clamping.
func (s Selection) Text(buf string) string {
	c := s.Clamp(buf)
	return buf[c.Start:c.End]
}

func clampOffset(buf string, off int) int {
	if off < 0 {
		return 0
	}
	if off >= len(buf) {
		return len(buf)
	}
	for off > 0 && !utf8.RuneStart(buf[off]) {
		off--
	}
	return off
}
