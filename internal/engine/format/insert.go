package format

import "strings"

// Separators and defaults used by the appending operations.
const (
	LinkSeparator   = " "
	ImageSeparator  = "\n"
	DefaultImageAlt = "Alt text"
	DefaultTabText  = "  "
)

// TableTemplate is appended by InsertTable.
const TableTemplate = `
| Header 1 | Header 2 |
| -------- | -------- |
| Cell 1   | Cell 2   |
`

// InsertLink appends a link reference to the end of buf.
func InsertLink(buf, url, text string) string {
	return buf + LinkSeparator + LinkMarkup(url, text)
}

// InsertImage appends an image reference to the end of buf.
func InsertImage(buf, url string) string {
	return buf + ImageSeparator + ImageMarkup(url, DefaultImageAlt)
}

// InsertTable appends the table template to the end of buf.
func InsertTable(buf string) string {
	return buf + TableTemplate
}

// InsertTab replaces the selection with tab and returns the new buffer and the
// caret offset just after the inserted text.
func InsertTab(buf string, sel Selection, tab string) (string, int) {
	if tab == "" {
		tab = DefaultTabText
	}
	sel = sel.Clamp(buf)
	out := buf[:sel.Start] + tab + buf[sel.End:]
	return out, sel.Start + len(tab)
}

// LinkMarkup returns the escaped markdown for a link.
func LinkMarkup(url, text string) string {
	return "[" + EscapeText(text) + "](" + EscapeURL(url) + ")"
}

// ImageMarkup returns the escaped markdown for an image.
func ImageMarkup(url, alt string) string {
	return "![" + EscapeText(alt) + "](" + EscapeURL(url) + ")"
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
)

var urlEscaper = strings.NewReplacer(
	`(`, `%28`,
	`)`, `%29`,
	` `, `%20`,
	"\t", `%09`,
	"\n", `%0A`,
	"\r", `%0D`,
)

// EscapeText escapes characters that would end link text or alt text early.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeURL escapes characters that would end a link destination early.
func EscapeURL(s string) string {
	return urlEscaper.Replace(strings.TrimSpace(s))
}
