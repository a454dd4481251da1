package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/markpad/internal/renderer/core"
)

// Theme defines colors and styles for syntax highlighting.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the code block background color.
	Background core.Color

	// Foreground is the default code color.
	Foreground core.Color

	// TokenStyles maps token types to their styles.
	TokenStyles map[TokenType]core.Style
}

// StyleForToken returns the style for a given token type.
func (t *Theme) StyleForToken(tokenType TokenType) core.Style {
	if style, ok := t.TokenStyles[tokenType]; ok {
		return style
	}
	return core.NewStyle(t.Foreground)
}

// BlockStyle returns the style of the code block container.
func (t *Theme) BlockStyle() core.Style {
	return core.NewStyle(t.Foreground).WithBackground(t.Background)
}

// DefaultTheme returns a sensible default dark theme.
func DefaultTheme() *Theme {
	comment := core.ColorFromRGB(106, 153, 85)
	keyword := core.ColorFromRGB(86, 156, 214)
	str := core.ColorFromRGB(206, 145, 120)
	number := core.ColorFromRGB(181, 206, 168)
	function := core.ColorFromRGB(220, 220, 170)
	typ := core.ColorFromRGB(78, 201, 176)
	variable := core.ColorFromRGB(156, 220, 254)
	operator := core.ColorFromRGB(212, 212, 212)
	invalid := core.ColorFromRGB(244, 71, 71)

	return &Theme{
		Name:       "Default Dark",
		Background: core.ColorFromRGB(30, 30, 30),
		Foreground: core.ColorFromRGB(212, 212, 212),
		TokenStyles: map[TokenType]core.Style{
			TokenComment:            core.NewStyle(comment).Italic(),
			TokenString:             core.NewStyle(str),
			TokenStringEscape:       core.NewStyle(core.ColorFromRGB(215, 186, 125)),
			TokenNumber:             core.NewStyle(number),
			TokenKeyword:            core.NewStyle(keyword),
			TokenKeywordDeclaration: core.NewStyle(keyword),
			TokenConstantLanguage:   core.NewStyle(keyword),
			TokenOperator:           core.NewStyle(operator),
			TokenPunctuation:        core.NewStyle(operator),
			TokenIdentifier:         core.NewStyle(variable),
			TokenFunction:           core.NewStyle(function),
			TokenFunctionBuiltin:    core.NewStyle(function),
			TokenTypeName:           core.NewStyle(typ),
			TokenTag:                core.NewStyle(keyword),
			TokenAttribute:          core.NewStyle(variable),
			TokenMeta:               core.NewStyle(comment),
			TokenMarkupHeading:      core.NewStyle(keyword).Bold(),
			TokenMarkupInserted:     core.NewStyle(number),
			TokenMarkupDeleted:      core.NewStyle(invalid),
			TokenInvalid:            core.NewStyle(invalid).Bold(),
		},
	}
}

// ThemeFromChroma builds a theme from the named chroma style.
// Unknown names resolve to chroma's fallback style.
func ThemeFromChroma(name string) *Theme {
	style := styles.Get(name)

	bg := style.Get(chroma.Background)
	theme := &Theme{
		Name:        style.Name,
		Background:  colour(bg.Background),
		Foreground:  colour(bg.Colour),
		TokenStyles: make(map[TokenType]core.Style, tokenTypeCount),
	}

	for _, t := range Types() {
		entry := style.Get(representative[t])
		s := core.NewStyle(colour(entry.Colour))
		if entry.Bold == chroma.Yes {
			s = s.Bold()
		}
		if entry.Italic == chroma.Yes {
			s = s.Italic()
		}
		if entry.Underline == chroma.Yes {
			s = s.Underline()
		}
		theme.TokenStyles[t] = s
	}
	return theme
}

func colour(c chroma.Colour) core.Color {
	if !c.IsSet() {
		return core.ColorUnset
	}
	return core.ColorFromRGB(c.Red(), c.Green(), c.Blue())
}
