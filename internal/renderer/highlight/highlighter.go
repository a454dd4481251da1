package highlight

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Highlighter tokenizes code by language tag. Lexers are looked up once
// per tag and cached. A Highlighter is safe for concurrent use.
type Highlighter struct {
	mu     sync.RWMutex
	lexers map[string]chroma.Lexer
	misses map[string]bool
}

// NewHighlighter creates a new highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{
		lexers: make(map[string]chroma.Lexer),
		misses: make(map[string]bool),
	}
}

// Supports reports whether lang names a known language.
func (h *Highlighter) Supports(lang string) bool {
	return h.lexer(lang) != nil
}

// Highlight splits code into typed tokens. It returns false when lang is
// empty or unrecognized, or the lexer fails; callers then render the code
// unstyled. Adjacent tokens of the same type are merged and the token
// texts always concatenate back to code.
func (h *Highlighter) Highlight(lang, code string) ([]Token, bool) {
	lexer := h.lexer(lang)
	if lexer == nil {
		return nil, false
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, false
	}

	var tokens []Token
	for _, tok := range iterator.Tokens() {
		if tok.Value == "" {
			continue
		}
		typ := FromChroma(tok.Type)
		if n := len(tokens); n > 0 && tokens[n-1].Type == typ {
			tokens[n-1].Text += tok.Value
			continue
		}
		tokens = append(tokens, Token{Type: typ, Text: tok.Value})
	}

	// Lexers may add a trailing newline the source did not have.
	if joined := joinTokens(tokens); joined != code && strings.TrimSuffix(joined, "\n") == code {
		last := &tokens[len(tokens)-1]
		last.Text = strings.TrimSuffix(last.Text, "\n")
		if last.Text == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}
	return tokens, true
}

func (h *Highlighter) lexer(lang string) chroma.Lexer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil
	}

	h.mu.RLock()
	lexer, ok := h.lexers[lang]
	miss := h.misses[lang]
	h.mu.RUnlock()
	if ok {
		return lexer
	}
	if miss {
		return nil
	}

	lexer = lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match("file." + lang)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if lexer == nil {
		h.misses[lang] = true
		return nil
	}
	lexer = chroma.Coalesce(lexer)
	h.lexers[lang] = lexer
	return lexer
}

func joinTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
