package markdown

import (
	"fmt"
	"strings"
)

// Dump returns a compact one-line description of n's subtree, e.g.
//
//	Document[Heading(1)[Text("Title")]]
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node) {
	sb.WriteString(n.Kind.String())
	if p := payload(n); p != "" {
		sb.WriteString("(" + p + ")")
	}
	if len(n.Children) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		dump(sb, c)
	}
	sb.WriteByte(']')
}

func payload(n *Node) string {
	switch n.Kind {
	case KindHeading:
		return fmt.Sprint(n.Level)
	case KindList:
		if n.Ordered {
			return "ordered"
		}
		return "unordered"
	case KindCodeBlock:
		if n.Language == "" {
			return ""
		}
		return fmt.Sprintf("language=%q", n.Language)
	case KindTableCell:
		if n.Header {
			return "header"
		}
	case KindText, KindInlineCode:
		return fmt.Sprintf("%q", n.Literal)
	case KindLink:
		return fmt.Sprintf("%q", n.Href)
	case KindImage:
		return fmt.Sprintf("%q,%q", n.Src, n.Alt)
	case KindTaskCheckbox:
		if n.Checked {
			return "x"
		}
	}
	return ""
}
