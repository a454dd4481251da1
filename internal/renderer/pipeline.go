package renderer

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/markpad/internal/markdown"
	"github.com/dshills/markpad/internal/renderer/core"
	"github.com/dshills/markpad/internal/renderer/highlight"
)

// Pipeline parses markdown and renders it through the rule table.
// A Pipeline is safe for concurrent use.
type Pipeline struct {
	mu          sync.RWMutex
	rules       Rules
	parser      *markdown.Parser
	highlighter *highlight.Highlighter
	opts        Options
	schemes     map[string]bool
}

// New creates a pipeline with the default rule table.
func New(opts Options) *Pipeline {
	if opts.Theme == nil {
		opts.Theme = highlight.DefaultTheme()
	}
	schemes := make(map[string]bool, len(opts.ExternalSchemes))
	for _, s := range opts.ExternalSchemes {
		schemes[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return &Pipeline{
		rules:       DefaultRules(),
		parser:      markdown.NewParser(),
		highlighter: highlight.NewHighlighter(),
		opts:        opts,
		schemes:     schemes,
	}
}

// Options returns the pipeline options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// SetRule replaces the rule for kind. A nil rule restores the default.
func (p *Pipeline) SetRule(kind markdown.Kind, rule Rule) {
	if kind >= markdown.KindCount {
		return
	}
	if rule == nil {
		rule = DefaultRules()[kind]
	}
	p.mu.Lock()
	p.rules[kind] = rule
	p.mu.Unlock()
}

// Parse parses text with the pipeline's parser.
func (p *Pipeline) Parse(text string) *markdown.Node {
	return p.parser.Parse(text)
}

// Render parses text and renders the resulting document.
func (p *Pipeline) Render(text string) *core.VisualNode {
	return p.RenderNode(p.parser.Parse(text))
}

// RenderNode renders a parsed node and its subtree.
func (p *Pipeline) RenderNode(n *markdown.Node) *core.VisualNode {
	p.mu.RLock()
	rules := p.rules
	p.mu.RUnlock()

	out := p.render(&rules, n)
	if out == nil {
		return core.Fragment()
	}
	return out
}

func (p *Pipeline) render(rules *Rules, n *markdown.Node) *core.VisualNode {
	children := make([]*core.VisualNode, 0, len(n.Children))
	hasRaw := false
	for _, c := range n.Children {
		if c.Kind == markdown.KindRawHTML {
			hasRaw = true
		}
		v := p.render(rules, c)
		switch {
		case v == nil:
		case v.Type == core.FragmentNode:
			children = append(children, v.Children...)
		default:
			children = append(children, v)
		}
	}
	if hasRaw {
		children = p.mergeInlineHTML(children)
	}

	rule := rules[n.Kind]
	if rule == nil {
		return core.Fragment(children...)
	}
	return rule(p, n, children)
}

// RenderHTML renders text and writes the result as HTML to w.
func (p *Pipeline) RenderHTML(w io.Writer, text string) error {
	return WriteHTML(w, p.Render(text))
}

// HTML renders text and returns the result as an HTML string.
func (p *Pipeline) HTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := p.RenderHTML(&buf, text); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML serializes a presentation tree as HTML.
func WriteHTML(w io.Writer, v *core.VisualNode) error {
	for _, n := range toHTML(v) {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// IsExternal reports whether href leaves the document: a protocol-relative
// URL or one whose scheme is listed in the options.
func (p *Pipeline) IsExternal(href string) bool {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		return true
	}
	scheme, ok := urlScheme(href)
	return ok && p.schemes[scheme]
}

// urlScheme returns the lowercased scheme of href, if it has one.
func urlScheme(href string) (string, bool) {
	i := strings.IndexByte(href, ':')
	if i <= 0 {
		return "", false
	}
	if strings.ContainsAny(href[:i], "/?#") {
		return "", false
	}
	return strings.ToLower(href[:i]), true
}
