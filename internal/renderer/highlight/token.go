// Package highlight tokenizes fenced code for the renderer.
package highlight

import "github.com/alecthomas/chroma/v2"

// TokenType represents the semantic type of a token.
type TokenType uint8

// Token types for syntax highlighting. Each lexer token is folded into
// one of these coarse classes.
const (
	TokenNone TokenType = iota
	TokenComment
	TokenString
	TokenStringEscape
	TokenNumber
	TokenKeyword
	TokenKeywordDeclaration
	TokenConstantLanguage // true, false, nil, null
	TokenOperator
	TokenPunctuation
	TokenIdentifier
	TokenFunction
	TokenFunctionBuiltin
	TokenTypeName
	TokenTag       // HTML/XML tags
	TokenAttribute // HTML/XML attributes
	TokenMeta      // preprocessor and decorators
	TokenMarkupHeading
	TokenMarkupInserted
	TokenMarkupDeleted
	TokenInvalid

	tokenTypeCount
)

// tokenTypeNames maps token types to their string names.
var tokenTypeNames = [tokenTypeCount]string{
	TokenNone:               "none",
	TokenComment:            "comment",
	TokenString:             "string",
	TokenStringEscape:       "string-escape",
	TokenNumber:             "number",
	TokenKeyword:            "keyword",
	TokenKeywordDeclaration: "keyword-declaration",
	TokenConstantLanguage:   "constant",
	TokenOperator:           "operator",
	TokenPunctuation:        "punctuation",
	TokenIdentifier:         "identifier",
	TokenFunction:           "function",
	TokenFunctionBuiltin:    "builtin",
	TokenTypeName:           "type",
	TokenTag:                "tag",
	TokenAttribute:          "attribute",
	TokenMeta:               "meta",
	TokenMarkupHeading:      "heading",
	TokenMarkupInserted:     "inserted",
	TokenMarkupDeleted:      "deleted",
	TokenInvalid:            "invalid",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if t < tokenTypeCount {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Class returns the CSS class for tokens of type t, or "" for TokenNone.
func (t TokenType) Class() string {
	if t == TokenNone || t >= tokenTypeCount {
		return ""
	}
	return "token " + t.String()
}

// IsKeyword returns true if this is a keyword token.
func (t TokenType) IsKeyword() bool {
	return t == TokenKeyword || t == TokenKeywordDeclaration
}

// Types returns every token type except TokenNone.
func Types() []TokenType {
	out := make([]TokenType, 0, tokenTypeCount-1)
	for t := TokenNone + 1; t < tokenTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Token is one highlighted run of source text.
type Token struct {
	Type TokenType
	Text string
}

// chromaTypes holds exact lexer token matches. Anything else is folded by
// category in FromChroma.
var chromaTypes = map[chroma.TokenType]TokenType{
	chroma.KeywordConstant:     TokenConstantLanguage,
	chroma.KeywordDeclaration:  TokenKeywordDeclaration,
	chroma.KeywordType:         TokenTypeName,
	chroma.NameFunction:        TokenFunction,
	chroma.NameFunctionMagic:   TokenFunction,
	chroma.NameBuiltin:         TokenFunctionBuiltin,
	chroma.NameBuiltinPseudo:   TokenFunctionBuiltin,
	chroma.NameClass:           TokenTypeName,
	chroma.NameConstant:        TokenConstantLanguage,
	chroma.NameTag:             TokenTag,
	chroma.NameAttribute:       TokenAttribute,
	chroma.NameDecorator:       TokenMeta,
	chroma.LiteralStringEscape: TokenStringEscape,
	chroma.CommentPreproc:      TokenMeta,
	chroma.GenericHeading:      TokenMarkupHeading,
	chroma.GenericSubheading:   TokenMarkupHeading,
	chroma.GenericInserted:     TokenMarkupInserted,
	chroma.GenericDeleted:      TokenMarkupDeleted,
	chroma.Error:               TokenInvalid,
}

// FromChroma folds a lexer token type into a TokenType.
func FromChroma(tt chroma.TokenType) TokenType {
	if t, ok := chromaTypes[tt]; ok {
		return t
	}
	switch {
	case tt.InSubCategory(chroma.LiteralString):
		return TokenString
	case tt.InSubCategory(chroma.LiteralNumber):
		return TokenNumber
	case tt.InCategory(chroma.Comment):
		return TokenComment
	case tt.InCategory(chroma.Keyword):
		return TokenKeyword
	case tt.InCategory(chroma.Operator):
		return TokenOperator
	case tt.InCategory(chroma.Punctuation):
		return TokenPunctuation
	case tt.InCategory(chroma.Name):
		return TokenIdentifier
	case tt.InCategory(chroma.Literal):
		return TokenString
	}
	return TokenNone
}

// representative is the lexer token type a theme looks up for each
// token type.
var representative = [tokenTypeCount]chroma.TokenType{
	TokenNone:               chroma.Text,
	TokenComment:            chroma.Comment,
	TokenString:             chroma.LiteralString,
	TokenStringEscape:       chroma.LiteralStringEscape,
	TokenNumber:             chroma.LiteralNumber,
	TokenKeyword:            chroma.Keyword,
	TokenKeywordDeclaration: chroma.KeywordDeclaration,
	TokenConstantLanguage:   chroma.KeywordConstant,
	TokenOperator:           chroma.Operator,
	TokenPunctuation:        chroma.Punctuation,
	TokenIdentifier:         chroma.Name,
	TokenFunction:           chroma.NameFunction,
	TokenFunctionBuiltin:    chroma.NameBuiltin,
	TokenTypeName:           chroma.KeywordType,
	TokenTag:                chroma.NameTag,
	TokenAttribute:          chroma.NameAttribute,
	TokenMeta:               chroma.CommentPreproc,
	TokenMarkupHeading:      chroma.GenericHeading,
	TokenMarkupInserted:     chroma.GenericInserted,
	TokenMarkupDeleted:      chroma.GenericDeleted,
	TokenInvalid:            chroma.Error,
}
