package renderer

import (
	"slices"
	"testing"

	"github.com/dshills/markpad/internal/markdown"
)

// renderedTags maps node kinds to the element each one renders as.
var renderedTags = map[markdown.Kind][]string{
	markdown.KindHeading:    {"h1", "h2", "h3", "h4", "h5", "h6"},
	markdown.KindBlockquote: {"blockquote"},
	markdown.KindCodeBlock:  {"pre"},
	markdown.KindTable:      {"table"},
	markdown.KindLink:       {"a"},
	markdown.KindImage:      {"img"},
}

func TestParseRenderReparseKeepsShape(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome *text*.",
		"## Two\n\n###### Six\n\n- a\n  - nested\n- b\n\n1. x\n2. y",
		"> quote\n> more\n\n```python\nprint(1)\n```\n\n```\nplain\n```",
		"| a | b |\n|---|---|\n| 1 | [link](y) |",
		"![img](x.png) [link](https://go.dev) and **strong**",
	}

	p := New(DefaultOptions())
	for _, in := range inputs {
		tree := p.Parse(in)
		before := tree.Kinds()
		dump := markdown.Dump(tree)

		view := p.RenderNode(tree)

		if got := markdown.Dump(tree); got != dump {
			t.Errorf("RenderNode(%q) changed the tree:\n got: %s\nwant: %s", in, got, dump)
		}
		if after := p.Parse(in).Kinds(); !slices.Equal(before, after) {
			t.Errorf("re-Parse(%q) kinds = %v, want %v", in, after, before)
		}

		for kind, tags := range renderedTags {
			want := 0
			for _, k := range before {
				if k == kind {
					want++
				}
			}
			got := 0
			for _, tag := range tags {
				got += len(view.FindAll(tag))
			}
			if got != want {
				t.Errorf("Render(%q) has %d %v elements, want %d for %s nodes", in, got, tags, want, kind)
			}
		}
	}
}
