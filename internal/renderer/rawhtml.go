package renderer

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/markpad/internal/markdown"
	"github.com/dshills/markpad/internal/renderer/core"
)

// bannedElements are removed, with their content, by the sanitizer.
var bannedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Frame:  true,
	atom.Base:   true,
	atom.Meta:   true,
	atom.Link:   true,
}

// urlAttributes hold URLs checked for unsafe schemes.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
}

// fragmentContext is the element raw HTML is parsed inside of.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

func renderHTMLBlock(p *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	return core.Fragment(p.parseHTML(n.Literal)...)
}

// mergeInlineHTML re-parses a run of inline nodes that contains raw HTML
// so tags split across sibling nodes nest into a well-formed tree.
func (p *Pipeline) mergeInlineHTML(children []*core.VisualNode) []*core.VisualNode {
	var buf bytes.Buffer
	for _, c := range children {
		if err := WriteHTML(&buf, c); err != nil {
			return children
		}
	}
	return p.parseHTML(buf.String())
}

// parseHTML parses src as body content and converts it to visual nodes.
// Unparseable input is kept as text.
func (p *Pipeline) parseHTML(src string) []*core.VisualNode {
	nodes, err := html.ParseFragment(strings.NewReader(src), fragmentContext)
	if err != nil {
		return []*core.VisualNode{core.Text(src)}
	}

	out := make([]*core.VisualNode, 0, len(nodes))
	for _, n := range nodes {
		if p.opts.Sanitize && !sanitize(n) {
			continue
		}
		if v := fromHTML(n); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// sanitize strips unsafe content from n's subtree in place. It returns
// false when n itself must be dropped.
func sanitize(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.ElementNode:
		if bannedElements[n.DataAtom] {
			return false
		}
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if urlAttributes[key] && unsafeURL(a.Val) {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !sanitize(c) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

// unsafeURL reports whether u uses a script-capable scheme.
func unsafeURL(u string) bool {
	// Browsers ignore embedded whitespace and control characters in schemes.
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, u)
	scheme, ok := urlScheme(cleaned)
	if !ok {
		return false
	}
	switch scheme {
	case "javascript", "vbscript":
		return true
	case "data":
		return !strings.HasPrefix(strings.ToLower(cleaned), "data:image/")
	}
	return false
}

// fromHTML converts a parsed HTML node to a visual node.
func fromHTML(n *html.Node) *core.VisualNode {
	switch n.Type {
	case html.TextNode:
		return core.Text(n.Data)
	case html.CommentNode:
		return core.Raw("<!--" + n.Data + "-->")
	case html.ElementNode:
		out := core.Element(n.Data, "")
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "class" {
				out.Class = a.Val
				continue
			}
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			out.Attrs = append(out.Attrs, core.Attr{Key: key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v := fromHTML(c); v != nil {
				out.AppendChild(v)
			}
		}
		return out
	}
	return nil
}

// toHTML converts a visual node to HTML nodes. Fragments expand to their
// children.
func toHTML(v *core.VisualNode) []*html.Node {
	switch v.Type {
	case core.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: v.Text}}
	case core.RawNode:
		return []*html.Node{{Type: html.RawNode, Data: v.Text}}
	case core.FragmentNode:
		var out []*html.Node
		for _, c := range v.Children {
			out = append(out, toHTML(c)...)
		}
		return out
	}

	n := &html.Node{Type: html.ElementNode, Data: v.Tag, DataAtom: atom.Lookup([]byte(v.Tag))}
	if v.Class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: v.Class})
	}
	css := v.Style.CSS()
	for _, a := range v.Attrs {
		if a.Key == "style" && css != "" {
			a.Val = css + ";" + a.Val
			css = ""
		}
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if css != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
	}
	for _, c := range v.Children {
		for _, h := range toHTML(c) {
			n.AppendChild(h)
		}
	}
	return []*html.Node{n}
}
