package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/markpad/internal/markdown"
	"github.com/dshills/markpad/internal/renderer/core"
)

// Rule maps a node and its rendered children to a presentation fragment.
// Returning nil drops the node.
type Rule func(p *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode

// Rules is the dispatch table, indexed by node kind.
type Rules [markdown.KindCount]Rule

// Presentation classes.
const (
	ParagraphClass      = "mt-3 mb-3"
	UnorderedListClass  = "list-disc list-inside mt-3 mb-3"
	OrderedListClass    = "list-decimal list-inside mt-3 mb-3"
	ListItemClass       = "mt-1"
	BlockquoteClass     = "border-l-4 border-gray-300 pl-4 italic my-4"
	TableClass          = "border-collapse table-auto w-full my-4"
	HeaderCellClass     = "border px-4 py-2 bg-gray-100"
	CellClass           = "border px-4 py-2"
	PreClass            = "overflow-auto p-4 rounded-md bg-gray-100 my-4"
	HighlightBlockClass = "rounded-md my-4"
	InlineCodeClass     = "bg-gray-100 rounded px-1 py-0.5"
	LinkClass           = "text-blue-600 hover:underline"
	ImageClass          = "max-w-full h-auto my-4"
	RuleClass           = "my-6 border-gray-300"
)

// headingClasses are ordered by decreasing visual weight, levels 1 to 6.
var headingClasses = [6]string{
	"text-3xl font-bold mt-6 mb-4",
	"text-2xl font-bold mt-5 mb-3",
	"text-xl font-bold mt-4 mb-2",
	"text-lg font-bold mt-3 mb-2",
	"text-base font-semibold mt-2 mb-1",
	"text-sm font-semibold mt-2 mb-1",
}

// HeadingClass returns the class for a heading level, clamped to 1..6.
func HeadingClass(level int) string {
	level = min(max(level, 1), 6)
	return headingClasses[level-1]
}

// DefaultRules returns the built-in rule table.
func DefaultRules() Rules {
	return Rules{
		markdown.KindDocument:      renderDocument,
		markdown.KindHeading:       renderHeading,
		markdown.KindParagraph:     wrapIn("p", ParagraphClass),
		markdown.KindList:          renderList,
		markdown.KindListItem:      wrapIn("li", ListItemClass),
		markdown.KindBlockquote:    wrapIn("blockquote", BlockquoteClass),
		markdown.KindCodeBlock:     renderCodeBlock,
		markdown.KindThematicBreak: wrapIn("hr", RuleClass),
		markdown.KindHTMLBlock:     renderHTMLBlock,
		markdown.KindTable:         renderTable,
		markdown.KindTableRow:      wrapIn("tr", ""),
		markdown.KindTableCell:     renderTableCell,
		markdown.KindText:          renderText,
		markdown.KindEmphasis:      wrapIn("em", ""),
		markdown.KindStrong:        wrapIn("strong", ""),
		markdown.KindStrikethrough: wrapIn("del", ""),
		markdown.KindInlineCode:    renderInlineCode,
		markdown.KindLink:          renderLink,
		markdown.KindImage:         renderImage,
		markdown.KindRawHTML:       renderRawHTML,
		markdown.KindLineBreak:     wrapIn("br", ""),
		markdown.KindTaskCheckbox:  renderTaskCheckbox,
	}
}

func wrapIn(tag, class string) Rule {
	return func(_ *Pipeline, _ *markdown.Node, children []*core.VisualNode) *core.VisualNode {
		return core.Element(tag, class, children...)
	}
}

func renderDocument(p *Pipeline, _ *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	return core.Element("div", p.opts.RootClass, children...)
}

func renderHeading(_ *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	level := min(max(n.Level, 1), 6)
	return core.Element("h"+strconv.Itoa(level), HeadingClass(level), children...)
}

func renderList(_ *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	if !n.Ordered {
		return core.Element("ul", UnorderedListClass, children...)
	}
	out := core.Element("ol", OrderedListClass, children...)
	if n.Start > 1 {
		out.SetAttr("start", strconv.Itoa(n.Start))
	}
	return out
}

func renderText(_ *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	return core.Text(n.Literal)
}

func renderInlineCode(_ *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	return core.Element("code", InlineCodeClass, core.Text(n.Literal))
}

func renderCodeBlock(p *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	code := strings.TrimSuffix(n.Literal, "\n")
	lang := strings.TrimSpace(n.Language)

	tokens, ok := p.highlighter.Highlight(lang, code)
	if !ok {
		codeEl := core.Element("code", "", core.Text(code))
		if lang != "" {
			codeEl.Class = "language-" + lang
		}
		return core.Element("pre", PreClass, codeEl)
	}

	theme := p.opts.Theme
	spans := make([]*core.VisualNode, 0, len(tokens))
	for _, tok := range tokens {
		class := tok.Type.Class()
		if class == "" {
			spans = append(spans, core.Text(tok.Text))
			continue
		}
		span := core.Element("span", class, core.Text(tok.Text))
		span.Style = theme.StyleForToken(tok.Type)
		spans = append(spans, span)
	}

	codeEl := core.Element("code", "language-"+lang, spans...)
	pre := core.Element("pre", "", codeEl)
	block := core.Element("div", HighlightBlockClass, pre)
	block.Style = theme.BlockStyle()
	block.SetAttr("data-language", lang)
	return block
}

func renderTable(_ *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	var head, body []*core.VisualNode
	for i, row := range children {
		if i < len(n.Children) && isHeaderRow(n.Children[i]) {
			head = append(head, row)
			continue
		}
		body = append(body, row)
	}

	out := core.Element("table", TableClass)
	if len(head) > 0 {
		out.AppendChild(core.Element("thead", "", head...))
	}
	if len(body) > 0 {
		out.AppendChild(core.Element("tbody", "", body...))
	}
	return out
}

func isHeaderRow(row *markdown.Node) bool {
	return len(row.Children) > 0 && row.Children[0].Header
}

func renderTableCell(_ *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	tag, class := "td", CellClass
	if n.Header {
		tag, class = "th", HeaderCellClass
	}
	out := core.Element(tag, class, children...)
	if a := n.Align.String(); a != "" {
		out.SetAttr("style", fmt.Sprintf("text-align:%s", a))
	}
	return out
}

func renderLink(p *Pipeline, n *markdown.Node, children []*core.VisualNode) *core.VisualNode {
	out := core.Element("a", LinkClass, children...)
	href := n.Href
	if p.opts.Sanitize && unsafeURL(href) {
		href = ""
	}
	out.SetAttr("href", href)
	if n.Title != "" {
		out.SetAttr("title", n.Title)
	}
	if p.IsExternal(href) {
		out.SetAttr("target", "_blank")
		out.SetAttr("rel", "noopener noreferrer")
	}
	return out
}

func renderImage(p *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	out := core.Element("img", ImageClass)
	src := n.Src
	if p.opts.Sanitize && unsafeURL(src) {
		src = ""
	}
	out.SetAttr("src", src)
	out.SetAttr("alt", n.Alt)
	if n.Title != "" {
		out.SetAttr("title", n.Title)
	}
	out.SetAttr("loading", "lazy")
	return out
}

func renderRawHTML(_ *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	return core.Raw(n.Literal)
}

func renderTaskCheckbox(_ *Pipeline, n *markdown.Node, _ []*core.VisualNode) *core.VisualNode {
	out := core.Element("input", "mr-2")
	out.SetAttr("type", "checkbox")
	out.SetAttr("disabled", "")
	if n.Checked {
		out.SetAttr("checked", "")
	}
	return out
}
