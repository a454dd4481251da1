package format

import "strings"

// Kind names a formatting operation.
type Kind string

// Builtin kinds.
const (
	Bold          Kind = "bold"
	Italic        Kind = "italic"
	Strikethrough Kind = "strikethrough"
	InlineCode    Kind = "inline-code"
	Heading       Kind = "heading"
	UnorderedList Kind = "unordered-list"
	OrderedList   Kind = "ordered-list"
	Quote         Kind = "quote"
	CodeFence     Kind = "code"
	TableInsert   Kind = "table"
)

// kindAliases maps alternative toolbar names to kinds.
var kindAliases = map[string]Kind{
	"strong":     Bold,
	"em":         Italic,
	"emphasis":   Italic,
	"strike":     Strikethrough,
	"ul":         UnorderedList,
	"bullets":    UnorderedList,
	"ol":         OrderedList,
	"numbered":   OrderedList,
	"blockquote": Quote,
	"fence":      CodeFence,
	"codeblock":  CodeFence,
	"code-fence": CodeFence,
}

// ParseKind converts a toolbar action name into a Kind.
// Names are matched case-insensitively. Unknown names are returned as-is so
// that plugin kinds and the pass-through rule keep working.
func ParseKind(name string) Kind {
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := kindAliases[n]; ok {
		return k
	}
	return Kind(n)
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// IsBuiltin reports whether k is one of the engine's builtin kinds.
func (k Kind) IsBuiltin() bool {
	_, ok := builtinTransforms[k]
	return ok || k == TableInsert
}

// Builtins returns all builtin kinds in toolbar order.
func Builtins() []Kind {
	return []Kind{
		Bold, Italic, Strikethrough, InlineCode, Heading,
		UnorderedList, OrderedList, Quote, CodeFence, TableInsert,
	}
}
