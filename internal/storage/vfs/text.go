package vfs

import (
	"bytes"
	"unicode/utf8"
)

// LineEnding represents the line ending style.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"

	// LineEndingMixed indicates more than one style.
	LineEndingMixed LineEnding = "mixed"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// DetectLineEnding reports the line ending style of content.
// Content without line breaks is reported as LF.
func DetectLineEnding(content []byte) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	styles := 0
	for _, n := range []int{lf, crlf, cr} {
		if n > 0 {
			styles++
		}
	}
	switch {
	case styles > 1:
		return LineEndingMixed
	case crlf > 0:
		return LineEndingCRLF
	case cr > 0:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// NormalizeLineEndings converts every line break in content to LF.
func NormalizeLineEndings(content []byte) []byte {
	if bytes.IndexByte(content, '\r') < 0 {
		return content
	}
	result := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			result = append(result, '\n')
			continue
		}
		result = append(result, content[i])
	}
	return result
}

// DecodeText turns file content into editor text: a UTF-8 BOM is
// stripped, line endings become LF and invalid UTF-8 sequences are
// replaced with U+FFFD.
func DecodeText(content []byte) string {
	content = bytes.TrimPrefix(content, bomUTF8)
	content = NormalizeLineEndings(content)
	if !utf8.Valid(content) {
		content = bytes.ToValidUTF8(content, []byte("�"))
	}
	return string(content)
}

// IsBinary reports whether content looks like a binary file: it holds
// a NUL byte in its first 8000 bytes.
func IsBinary(content []byte) bool {
	if len(content) > 8000 {
		content = content[:8000]
	}
	return bytes.IndexByte(content, 0) >= 0
}
