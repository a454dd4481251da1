package core

import "strings"

// NodeType distinguishes the variants of a VisualNode.
type NodeType uint8

const (
	// ElementNode is a tag with attributes and children.
	ElementNode NodeType = iota
	// TextNode is literal text, escaped on output.
	TextNode
	// RawNode is markup emitted verbatim.
	RawNode
	// FragmentNode groups nodes that are spliced into the parent.
	FragmentNode
)

// Attr is one element attribute. Order is preserved on output.
type Attr struct {
	Key string
	Val string
}

// VisualNode is one node of the presentation tree.
type VisualNode struct {
	Type     NodeType
	Tag      string
	Class    string
	Attrs    []Attr
	Text     string
	Style    Style
	Children []*VisualNode
}

// Element creates an element node with the given children.
func Element(tag, class string, children ...*VisualNode) *VisualNode {
	return &VisualNode{Type: ElementNode, Tag: tag, Class: class, Children: children}
}

// Text creates a text node.
func Text(s string) *VisualNode {
	return &VisualNode{Type: TextNode, Text: s}
}

// Raw creates a node whose text is emitted without escaping.
func Raw(s string) *VisualNode {
	return &VisualNode{Type: RawNode, Text: s}
}

// Fragment groups nodes without a wrapping element.
func Fragment(children ...*VisualNode) *VisualNode {
	return &VisualNode{Type: FragmentNode, Children: children}
}

// Attr returns the value of the attribute key and whether it is present.
func (n *VisualNode) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets key to val, replacing an existing value.
func (n *VisualNode) SetAttr(key, val string) *VisualNode {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

// RemoveAttr deletes key if present.
func (n *VisualNode) RemoveAttr(key string) {
	out := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attrs = out
}

// AppendChild adds child as the last child of n.
func (n *VisualNode) AppendChild(child *VisualNode) {
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first.
// Returning false from fn skips the node's children.
func (n *VisualNode) Walk(fn func(*VisualNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node, in depth-first order, with the given tag.
func (n *VisualNode) Find(tag string) *VisualNode {
	var found *VisualNode
	n.Walk(func(c *VisualNode) bool {
		if found != nil {
			return false
		}
		if c.Type == ElementNode && c.Tag == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node with the given tag in depth-first order.
func (n *VisualNode) FindAll(tag string) []*VisualNode {
	var found []*VisualNode
	n.Walk(func(c *VisualNode) bool {
		if c.Type == ElementNode && c.Tag == tag {
			found = append(found, c)
		}
		return true
	})
	return found
}

// TextContent returns the concatenated text of n's subtree.
func (n *VisualNode) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c *VisualNode) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}
