package highlight

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/markpad/internal/renderer/core"
)

func TestHighlightJavaScript(t *testing.T) {
	h := NewHighlighter()
	code := "console.log(1)"

	tokens, ok := h.Highlight("js", code)
	if !ok {
		t.Fatal("Highlight(js) ok = false, want true")
	}
	if len(tokens) < 2 {
		t.Fatalf("Highlight(js) returned %d tokens, want several", len(tokens))
	}
	if got := joinTokens(tokens); got != code {
		t.Errorf("joined tokens = %q, want %q", got, code)
	}

	var sawNumber, sawPunct bool
	for _, tok := range tokens {
		switch tok.Type {
		case TokenNumber:
			sawNumber = true
		case TokenPunctuation:
			sawPunct = true
		}
	}
	if !sawNumber || !sawPunct {
		t.Errorf("tokens %v: want number and punctuation tokens", tokens)
	}
}

func TestHighlightGoKeywords(t *testing.T) {
	h := NewHighlighter()
	tokens, ok := h.Highlight("go", "func main() {\n\treturn\n}")
	if !ok {
		t.Fatal("Highlight(go) ok = false")
	}
	var keywords []string
	for _, tok := range tokens {
		if tok.Type.IsKeyword() {
			keywords = append(keywords, strings.TrimSpace(tok.Text))
		}
	}
	if len(keywords) == 0 {
		t.Errorf("Highlight(go) produced no keyword tokens: %v", tokens)
	}
}

func TestHighlightUnknownLanguage(t *testing.T) {
	h := NewHighlighter()
	tests := []string{"", "   ", "definitely-not-a-language"}
	for _, lang := range tests {
		if tokens, ok := h.Highlight(lang, "x = 1"); ok || tokens != nil {
			t.Errorf("Highlight(%q) = %v, %v, want nil, false", lang, tokens, ok)
		}
	}
	// Second lookup is served from the miss cache.
	if h.Supports("definitely-not-a-language") {
		t.Error("Supports() = true for unknown language")
	}
}

func TestHighlightCaseInsensitive(t *testing.T) {
	h := NewHighlighter()
	if !h.Supports("Python") || !h.Supports("python") {
		t.Error("Supports(Python) = false")
	}
}

func TestHighlightPreservesText(t *testing.T) {
	h := NewHighlighter()
	inputs := map[string]string{
		"python": "def f(x):\n    return x  # done",
		"html":   "<div class=\"a\">hi</div>",
		"json":   "{\"a\": [1, 2.5, true]}",
	}
	for lang, code := range inputs {
		tokens, ok := h.Highlight(lang, code)
		if !ok {
			t.Errorf("Highlight(%s) ok = false", lang)
			continue
		}
		if got := joinTokens(tokens); got != code {
			t.Errorf("Highlight(%s) joined = %q, want %q", lang, got, code)
		}
		for i := 1; i < len(tokens); i++ {
			if tokens[i].Type == tokens[i-1].Type {
				t.Errorf("Highlight(%s) left adjacent %v tokens unmerged", lang, tokens[i].Type)
			}
		}
	}
}

func TestFromChroma(t *testing.T) {
	tests := []struct {
		in   chroma.TokenType
		want TokenType
	}{
		{chroma.Keyword, TokenKeyword},
		{chroma.KeywordReserved, TokenKeyword},
		{chroma.KeywordDeclaration, TokenKeywordDeclaration},
		{chroma.KeywordConstant, TokenConstantLanguage},
		{chroma.LiteralStringDouble, TokenString},
		{chroma.LiteralStringEscape, TokenStringEscape},
		{chroma.LiteralNumberInteger, TokenNumber},
		{chroma.CommentSingle, TokenComment},
		{chroma.CommentPreproc, TokenMeta},
		{chroma.NameFunction, TokenFunction},
		{chroma.NameOther, TokenIdentifier},
		{chroma.OperatorWord, TokenOperator},
		{chroma.Punctuation, TokenPunctuation},
		{chroma.Text, TokenNone},
		{chroma.TextWhitespace, TokenNone},
	}

	for _, tt := range tests {
		if got := FromChroma(tt.in); got != tt.want {
			t.Errorf("FromChroma(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTokenTypeClass(t *testing.T) {
	if got := TokenNone.Class(); got != "" {
		t.Errorf("TokenNone.Class() = %q, want empty", got)
	}
	if got := TokenKeyword.Class(); got != "token keyword" {
		t.Errorf("TokenKeyword.Class() = %q", got)
	}
	for _, tt := range Types() {
		if tt.String() == "" || tt.String() == "unknown" {
			t.Errorf("TokenType(%d) has no name", tt)
		}
	}
	if got := tokenTypeCount.String(); got != "unknown" {
		t.Errorf("out of range String() = %q, want unknown", got)
	}
}

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	if theme.Name != "Default Dark" {
		t.Errorf("DefaultTheme().Name = %q, want %q", theme.Name, "Default Dark")
	}
	for _, tt := range Types() {
		if _, ok := theme.TokenStyles[tt]; !ok {
			t.Errorf("DefaultTheme() missing style for %v", tt)
		}
	}
	if !theme.StyleForToken(TokenComment).Attributes.Has(core.AttrItalic) {
		t.Error("comments should be italic")
	}
}

func TestThemeStyleForTokenFallback(t *testing.T) {
	theme := &Theme{Foreground: DefaultTheme().Foreground}
	if got := theme.StyleForToken(TokenKeyword); got.Foreground != theme.Foreground {
		t.Errorf("StyleForToken() foreground = %v, want %v", got.Foreground, theme.Foreground)
	}
}

func TestThemeFromChroma(t *testing.T) {
	theme := ThemeFromChroma("monokai")
	if theme.Name != "monokai" {
		t.Errorf("Name = %q, want monokai", theme.Name)
	}
	if !theme.Background.IsSet() {
		t.Error("monokai background not set")
	}
	if !theme.StyleForToken(TokenKeyword).Foreground.IsSet() {
		t.Error("monokai keyword color not set")
	}
	if len(theme.TokenStyles) != len(Types()) {
		t.Errorf("len(TokenStyles) = %d, want %d", len(theme.TokenStyles), len(Types()))
	}
}

func TestThemeFromChromaUnknownFallsBack(t *testing.T) {
	theme := ThemeFromChroma("no-such-style")
	if theme == nil || theme.Name == "" {
		t.Fatalf("ThemeFromChroma(unknown) = %+v", theme)
	}
}
