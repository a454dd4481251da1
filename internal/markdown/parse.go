package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser converts markdown text into a Node tree.
// A Parser holds no per-document state and can be reused.
type Parser struct {
	md goldmark.Markdown
}

// parserConfig holds the enabled syntax extensions.
type parserConfig struct {
	tables        bool
	strikethrough bool
	taskList      bool
	linkify       bool
}

// Option configures a Parser.
type Option func(*parserConfig)

// WithTables enables or disables pipe tables.
func WithTables(enable bool) Option {
	return func(c *parserConfig) {
		c.tables = enable
	}
}

// WithStrikethrough enables or disables ~~strikethrough~~.
func WithStrikethrough(enable bool) Option {
	return func(c *parserConfig) {
		c.strikethrough = enable
	}
}

// WithTaskList enables or disables [ ] / [x] list item checkboxes.
func WithTaskList(enable bool) Option {
	return func(c *parserConfig) {
		c.taskList = enable
	}
}

// WithLinkify enables or disables bare URL autolinking.
func WithLinkify(enable bool) Option {
	return func(c *parserConfig) {
		c.linkify = enable
	}
}

// NewParser creates a parser with GitHub flavored extensions enabled.
func NewParser(opts ...Option) *Parser {
	cfg := parserConfig{
		tables:        true,
		strikethrough: true,
		taskList:      true,
		linkify:       true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var exts []goldmark.Extender
	if cfg.tables {
		exts = append(exts, extension.Table)
	}
	if cfg.strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.taskList {
		exts = append(exts, extension.TaskList)
	}
	if cfg.linkify {
		exts = append(exts, extension.Linkify)
	}

	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(exts...)),
	}
}

var defaultParser = NewParser()

// Parse parses text with the default parser.
func Parse(src string) *Node {
	return defaultParser.Parse(src)
}

// Parse converts src into a Document node.
// Parsing never fails: if the underlying parser panics, the whole input is
// returned as a single paragraph of text.
func (p *Parser) Parse(src string) (doc *Node) {
	defer func() {
		if r := recover(); r != nil {
			doc = fallbackDocument(src)
		}
	}()

	source := []byte(src)
	root := p.md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source}
	doc = NewNode(KindDocument)
	c.blocks(doc, root)
	return doc
}

func fallbackDocument(src string) *Node {
	doc := NewNode(KindDocument)
	if strings.TrimSpace(src) != "" {
		doc.AppendChild(NewNode(KindParagraph, NewText(src)))
	}
	return doc
}

// converter maps goldmark's AST onto Node values.
type converter struct {
	source []byte
}

// blocks converts the block children of n into children of parent.
func (c *converter) blocks(parent *Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.block(parent, child)
	}
}

func (c *converter) block(parent *Node, n ast.Node) {
	switch v := n.(type) {
	case *ast.Heading:
		out := &Node{Kind: KindHeading, Level: v.Level}
		c.inlines(out, v)
		parent.AppendChild(out)

	case *ast.Paragraph:
		out := NewNode(KindParagraph)
		c.inlines(out, v)
		parent.AppendChild(out)

	case *ast.TextBlock:
		// Tight list items hold their inline content directly.
		c.inlines(parent, v)

	case *ast.List:
		out := &Node{Kind: KindList, Ordered: v.IsOrdered(), Start: v.Start, Tight: v.IsTight}
		c.blocks(out, v)
		parent.AppendChild(out)

	case *ast.ListItem:
		out := NewNode(KindListItem)
		c.blocks(out, v)
		parent.AppendChild(out)

	case *ast.Blockquote:
		out := NewNode(KindBlockquote)
		c.blocks(out, v)
		parent.AppendChild(out)

	case *ast.FencedCodeBlock:
		parent.AppendChild(&Node{
			Kind:     KindCodeBlock,
			Language: string(v.Language(c.source)),
			Literal:  c.lines(v.Lines()),
		})

	case *ast.CodeBlock:
		parent.AppendChild(&Node{Kind: KindCodeBlock, Literal: c.lines(v.Lines())})

	case *ast.ThematicBreak:
		parent.AppendChild(NewNode(KindThematicBreak))

	case *ast.HTMLBlock:
		raw := c.lines(v.Lines())
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(c.source))
		}
		parent.AppendChild(&Node{Kind: KindHTMLBlock, Literal: raw})

	case *east.Table:
		parent.AppendChild(c.table(v))

	default:
		if n.Type() == ast.TypeInline {
			c.inline(parent, n)
			return
		}
		c.blocks(parent, n)
	}
}

func (c *converter) table(t *east.Table) *Node {
	out := NewNode(KindTable)
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		header := false
		switch row.(type) {
		case *east.TableHeader:
			header = true
		case *east.TableRow:
		default:
			continue
		}

		r := NewNode(KindTableRow)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc, ok := cell.(*east.TableCell)
			if !ok {
				continue
			}
			n := &Node{Kind: KindTableCell, Header: header, Align: alignment(tc.Alignment)}
			c.inlines(n, tc)
			r.AppendChild(n)
		}
		out.AppendChild(r)
	}
	return out
}

func alignment(a east.Alignment) Align {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}

// inlines converts the inline children of n into children of parent.
func (c *converter) inlines(parent *Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(parent, child)
	}
}

func (c *converter) inline(parent *Node, n ast.Node) {
	switch v := n.(type) {
	case *ast.Text:
		value := v.Segment.Value(c.source)
		if v.IsRaw() {
			appendText(parent, string(value))
		} else {
			appendText(parent, unescape(value))
		}
		if v.HardLineBreak() {
			parent.AppendChild(NewNode(KindLineBreak))
		} else if v.SoftLineBreak() {
			appendText(parent, "\n")
		}

	case *ast.String:
		appendText(parent, string(v.Value))

	case *ast.CodeSpan:
		parent.AppendChild(&Node{Kind: KindInlineCode, Literal: c.plain(v)})

	case *ast.Emphasis:
		kind := KindEmphasis
		if v.Level >= 2 {
			kind = KindStrong
		}
		out := NewNode(kind)
		c.inlines(out, v)
		parent.AppendChild(out)

	case *east.Strikethrough:
		out := NewNode(KindStrikethrough)
		c.inlines(out, v)
		parent.AppendChild(out)

	case *ast.Link:
		out := &Node{Kind: KindLink, Href: string(v.Destination), Title: string(v.Title)}
		c.inlines(out, v)
		parent.AppendChild(out)

	case *ast.AutoLink:
		url := string(v.URL(c.source))
		if v.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		out := &Node{Kind: KindLink, Href: url}
		out.AppendChild(NewText(string(v.Label(c.source))))
		parent.AppendChild(out)

	case *ast.Image:
		parent.AppendChild(&Node{
			Kind:  KindImage,
			Src:   string(v.Destination),
			Alt:   c.plain(v),
			Title: string(v.Title),
		})

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		parent.AppendChild(&Node{Kind: KindRawHTML, Literal: buf.String()})

	case *east.TaskCheckBox:
		parent.AppendChild(&Node{Kind: KindTaskCheckbox, Checked: v.IsChecked})

	default:
		c.inlines(parent, n)
	}
}

// lines joins the raw source lines of a block.
func (c *converter) lines(segs *text.Segments) string {
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(c.source))
	}
	return buf.String()
}

// plain returns the text content of an inline subtree.
func (c *converter) plain(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := child.(type) {
		case *ast.Text:
			if v.IsRaw() {
				sb.Write(v.Segment.Value(c.source))
			} else {
				sb.WriteString(unescape(v.Segment.Value(c.source)))
			}
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// unescape resolves backslash escapes and character references.
func unescape(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

// appendText adds s to parent, merging with a preceding text node.
func appendText(parent *Node, s string) {
	if s == "" {
		return
	}
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Kind == KindText {
		parent.Children[n-1].Literal += s
		return
	}
	parent.AppendChild(NewText(s))
}
