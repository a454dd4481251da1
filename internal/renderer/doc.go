// Package renderer turns markdown text into a presentation tree.
//
// The renderer is responsible for:
//   - Parsing buffer text into a markdown node tree
//   - Mapping each node kind to a presentation rule
//   - Syntax highlighting fenced code by language tag
//   - Safety attributes on external links and images
//   - Passing raw HTML through, optionally sanitized
//   - Serializing the presentation tree as HTML
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Pipeline (Facade)             │
//	├─────────────────────────────────────────┤
//	│  markdown.Parser │ Rule table           │
//	│                  │ highlight.Highlighter│
//	├─────────────────────────────────────────┤
//	│     core.VisualNode │ x/net/html output │
//	└─────────────────────────────────────────┘
//
// Rendering is depth-first: a node's children are rendered before its own
// rule runs, and the rule receives the rendered children.
//
// Usage:
//
//	p := renderer.New(renderer.DefaultOptions())
//	tree := p.Render("# Title\n\nSome *text*.")
//	_ = p.RenderHTML(os.Stdout, "# Title")
package renderer
