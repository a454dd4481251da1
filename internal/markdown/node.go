// Package markdown parses buffer text into a tree of typed nodes.
//
// The tree is rebuilt from scratch on every call to Parse. Nodes hold their
// children by value order only; there are no parent pointers.
package markdown

import "strings"

// Kind is the discriminant of a Node.
type Kind uint8

// Node kinds. Block kinds come first, inline kinds after.
const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindThematicBreak
	KindHTMLBlock
	KindTable
	KindTableRow
	KindTableCell

	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindInlineCode
	KindLink
	KindImage
	KindRawHTML
	KindLineBreak
	KindTaskCheckbox

	// KindCount is the number of kinds. Keep it last.
	KindCount
)

var kindNames = [KindCount]string{
	KindDocument:      "Document",
	KindHeading:       "Heading",
	KindParagraph:     "Paragraph",
	KindList:          "List",
	KindListItem:      "ListItem",
	KindBlockquote:    "Blockquote",
	KindCodeBlock:     "CodeBlock",
	KindThematicBreak: "ThematicBreak",
	KindHTMLBlock:     "HTMLBlock",
	KindTable:         "Table",
	KindTableRow:      "TableRow",
	KindTableCell:     "TableCell",
	KindText:          "Text",
	KindEmphasis:      "Emphasis",
	KindStrong:        "Strong",
	KindStrikethrough: "Strikethrough",
	KindInlineCode:    "InlineCode",
	KindLink:          "Link",
	KindImage:         "Image",
	KindRawHTML:       "RawHTML",
	KindLineBreak:     "LineBreak",
	KindTaskCheckbox:  "TaskCheckbox",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// IsBlock reports whether k is a block-level kind.
func (k Kind) IsBlock() bool {
	return k < KindText
}

// Align is a table column alignment.
type Align uint8

// Table column alignments.
const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the CSS text-align value, or "" for AlignNone.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// Node is one element of the parsed document.
// Only the payload fields relevant to Kind are set.
type Node struct {
	Kind     Kind
	Children []*Node

	// Heading
	Level int

	// List
	Ordered bool
	Start   int
	Tight   bool

	// CodeBlock: Language is empty when no tag was given.
	Language string

	// Text, InlineCode, CodeBlock, HTMLBlock, RawHTML
	Literal string

	// Link
	Href  string
	Title string

	// Image
	Src string
	Alt string

	// TableCell
	Header bool
	Align  Align

	// TaskCheckbox
	Checked bool
}

// NewNode creates a node of the given kind.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewText creates a text node.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Literal: s}
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// PlainText returns the concatenated literal text of n's subtree.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		switch c.Kind {
		case KindText, KindInlineCode:
			sb.WriteString(c.Literal)
		case KindLineBreak:
			sb.WriteByte('\n')
		case KindImage:
			sb.WriteString(c.Alt)
			return false
		}
		return true
	})
	return sb.String()
}

// Kinds returns the kinds of n's subtree in depth-first order.
func (n *Node) Kinds() []Kind {
	var kinds []Kind
	n.Walk(func(c *Node) bool {
		kinds = append(kinds, c.Kind)
		return true
	})
	return kinds
}
