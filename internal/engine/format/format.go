package format

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

// Markup tokens used by the builtin transforms.
const (
	BoldDelim     = "**"
	ItalicDelim   = "*"
	StrikeDelim   = "~~"
	CodeSpanDelim = "`"
	HeadingMarker = "# "
	BulletMarker  = "- "
	QuoteMarker   = "> "
	FenceOpen     = "```"
	FenceClose    = "```"
)

// Errors returned when registering kinds.
var (
	ErrBuiltinKind  = errors.New("cannot override builtin kind")
	ErrEmptyKind    = errors.New("empty kind name")
	ErrNilTransform = errors.New("nil transform")
)

// Transform maps the selected text to its formatted replacement.
type Transform func(selected string) string

var builtinTransforms = map[Kind]Transform{
	Bold:          wrap(BoldDelim),
	Italic:        wrap(ItalicDelim),
	Strikethrough: wrap(StrikeDelim),
	InlineCode:    wrap(CodeSpanDelim),
	Heading:       prefixLines(func(int) string { return HeadingMarker }),
	UnorderedList: prefixLines(func(int) string { return BulletMarker }),
	OrderedList:   prefixLines(func(i int) string { return strconv.Itoa(i+1) + ". " }),
	Quote:         quote,
	CodeFence:     fence,
}

func wrap(delim string) Transform {
	return func(s string) string {
		return delim + s + delim
	}
}

// prefixLines prefixes every line of the selection; line i gets marker(i).
func prefixLines(marker func(i int) string) Transform {
	return func(s string) string {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			lines[i] = marker(i) + line
		}
		return strings.Join(lines, "\n")
	}
}

// quote prefixes the whole selection once, not every line.
func quote(s string) string {
	return QuoteMarker + s
}

func fence(s string) string {
	return FenceOpen + "\n" + s + "\n" + FenceClose
}

// Engine applies formatting kinds to buffer selections.
// The zero value is not usable; create engines with NewEngine.
type Engine struct {
	mu     sync.RWMutex
	custom map[Kind]Transform
}

// NewEngine creates an engine with the builtin kinds.
func NewEngine() *Engine {
	return &Engine{
		custom: make(map[Kind]Transform),
	}
}

var defaultEngine = NewEngine()

// Apply formats the selection of buf with kind using the builtin kinds.
func Apply(buf string, sel Selection, kind Kind) string {
	return defaultEngine.Apply(buf, sel, kind)
}

// Register adds a custom kind.
// Registering a kind twice replaces the earlier transform.
func (e *Engine) Register(kind Kind, fn Transform) error {
	if kind == "" {
		return ErrEmptyKind
	}
	if fn == nil {
		return ErrNilTransform
	}
	if kind.IsBuiltin() {
		return ErrBuiltinKind
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.custom[kind] = fn
	return nil
}

// Unregister removes a custom kind.
func (e *Engine) Unregister(kind Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.custom, kind)
}

// Has reports whether the engine knows kind.
func (e *Engine) Has(kind Kind) bool {
	if kind.IsBuiltin() {
		return true
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.custom[kind]
	return ok
}

// Kinds returns the builtin kinds followed by the registered custom kinds.
func (e *Engine) Kinds() []Kind {
	kinds := Builtins()
	e.mu.RLock()
	defer e.mu.RUnlock()
	for k := range e.custom {
		kinds = append(kinds, k)
	}
	return kinds
}

// Apply returns buf with the selection replaced by its formatted form.
// TableInsert ignores the selection and appends the table template.
func (e *Engine) Apply(buf string, sel Selection, kind Kind) string {
	if kind == TableInsert {
		return InsertTable(buf)
	}

	sel = sel.Clamp(buf)
	selected := buf[sel.Start:sel.End]

	return buf[:sel.Start] + e.transform(kind)(selected) + buf[sel.End:]
}

// Format returns only the formatted replacement for selected.
func (e *Engine) Format(selected string, kind Kind) string {
	return e.transform(kind)(selected)
}

func (e *Engine) transform(kind Kind) Transform {
	if fn, ok := builtinTransforms[kind]; ok {
		return fn
	}
	e.mu.RLock()
	fn, ok := e.custom[kind]
	e.mu.RUnlock()
	if ok {
		return fn
	}
	return passThrough
}

func passThrough(s string) string {
	return s
}
