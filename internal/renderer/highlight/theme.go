package highlight

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/quill/internal/renderer/core"
)

// Theme defines colors and styles for syntax highlighting and the editor
// chrome.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	Background    core.Color
	Foreground    core.Color
	Selection     core.Color
	LineHighlight core.Color
	SearchMatch   core.Color

	// Gutter and GutterCurrent color line numbers.
	Gutter        core.Color
	GutterCurrent core.Color

	StatusLine  core.Style
	TabActive   core.Style
	TabInactive core.Style

	// Feedback line levels.
	Info    core.Color
	Warning core.Color
	Error   core.Color

	// TokenStyles maps token types to their styles.
	TokenStyles map[TokenType]core.Style
}

// Base returns the plain text style of the theme.
func (t *Theme) Base() core.Style {
	return core.NewStyle(t.Foreground).WithBackground(t.Background)
}

// StyleForToken returns the style for a token type, walking up to parent
// scopes ("keyword.control" falls back to "keyword") and finally to the
// plain foreground.
func (t *Theme) StyleForToken(tokenType TokenType) core.Style {
	for tt := tokenType; tt != TokenNone; tt = tt.Parent() {
		if style, ok := t.TokenStyles[tt]; ok {
			return style
		}
	}
	return core.NewStyle(t.Foreground)
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	c := *t
	c.TokenStyles = make(map[TokenType]core.Style, len(t.TokenStyles))
	for k, v := range t.TokenStyles {
		c.TokenStyles[k] = v
	}
	return &c
}

// WithOverrides returns a copy of the theme with colors replaced. Keys are
// either UI names ("background", "selection", "gutter", ...) or token
// scopes ("keyword", "string.escape"). Values are hex colors.
func (t *Theme) WithOverrides(overrides map[string]string) (*Theme, error) {
	c := t.Clone()
	for key, value := range overrides {
		col, err := core.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", key, err)
		}
		if c.setUIColor(key, col) {
			continue
		}
		tt := TokenTypeFromString(key)
		if tt == TokenNone {
			return nil, fmt.Errorf("color %q: unknown scope", key)
		}
		c.TokenStyles[tt] = c.StyleForToken(tt).WithForeground(col)
	}
	return c, nil
}

func (t *Theme) setUIColor(key string, col core.Color) bool {
	switch strings.ToLower(key) {
	case "background":
		t.Background = col
	case "foreground":
		t.Foreground = col
	case "selection":
		t.Selection = col
	case "line_highlight":
		t.LineHighlight = col
	case "search_match":
		t.SearchMatch = col
	case "gutter":
		t.Gutter = col
	case "gutter_current":
		t.GutterCurrent = col
	case "status_line":
		t.StatusLine = t.StatusLine.WithBackground(col)
	case "tab_active":
		t.TabActive = t.TabActive.WithBackground(col)
	case "info":
		t.Info = col
	case "warning":
		t.Warning = col
	case "error":
		t.Error = col
	default:
		return false
	}
	return true
}

// DefaultTheme returns a sensible default dark theme.
func DefaultTheme() *Theme {
	// Colors
	comment := core.ColorFromRGB(106, 153, 85)   // Green
	keyword := core.ColorFromRGB(86, 156, 214)   // Blue
	str := core.ColorFromRGB(206, 145, 120)      // Orange
	number := core.ColorFromRGB(181, 206, 168)   // Light green
	function := core.ColorFromRGB(220, 220, 170) // Yellow
	typ := core.ColorFromRGB(78, 201, 176)       // Teal
	control := core.ColorFromRGB(197, 134, 192)  // Purple
	fg := core.ColorFromRGB(212, 212, 212)

	return &Theme{
		Name:          "default",
		Background:    core.ColorFromRGB(30, 30, 30),
		Foreground:    fg,
		Selection:     core.ColorFromRGB(38, 79, 120),
		LineHighlight: core.ColorFromRGB(40, 40, 40),
		SearchMatch:   core.ColorFromRGB(97, 81, 38),
		Gutter:        core.ColorFromRGB(110, 118, 129),
		GutterCurrent: core.ColorFromRGB(198, 198, 198),
		StatusLine:    core.NewStyle(core.ColorFromRGB(255, 255, 255)).WithBackground(core.ColorFromRGB(0, 122, 204)),
		TabActive:     core.NewStyle(core.ColorFromRGB(255, 255, 255)).WithBackground(core.ColorFromRGB(30, 30, 30)).Bold(),
		TabInactive:   core.NewStyle(core.ColorFromRGB(150, 150, 150)).WithBackground(core.ColorFromRGB(45, 45, 45)),
		Info:          core.ColorFromRGB(117, 190, 255),
		Warning:       core.ColorFromRGB(204, 167, 0),
		Error:         core.ColorFromRGB(244, 71, 71),
		TokenStyles: map[TokenType]core.Style{
			TokenComment:            core.NewStyle(comment).Italic(),
			TokenString:             core.NewStyle(str),
			TokenStringEscape:       core.NewStyle(core.ColorFromRGB(215, 186, 125)),
			TokenNumber:             core.NewStyle(number),
			TokenKeyword:            core.NewStyle(keyword),
			TokenKeywordControl:     core.NewStyle(control),
			TokenOperator:           core.NewStyle(fg),
			TokenConstant:           core.NewStyle(core.ColorFromRGB(79, 193, 255)),
			TokenConstantLanguage:   core.NewStyle(keyword),
			TokenFunction:           core.NewStyle(function),
			TokenTypeName:           core.NewStyle(typ),
			TokenMeta:               core.NewStyle(core.ColorFromRGB(155, 155, 155)),
			TokenMarkupHeading:      core.NewStyle(keyword).Bold(),
			TokenMarkupBold:         core.DefaultStyle().Bold(),
			TokenMarkupItalic:       core.DefaultStyle().Italic(),
			TokenMarkupCode:         core.NewStyle(str),
			TokenMarkupLink:         core.NewStyle(typ).Underline(),
			TokenMarkupList:         core.NewStyle(control),
			TokenMarkupQuote:        core.NewStyle(comment),
			TokenKeywordDeclaration: core.NewStyle(keyword),
		},
	}
}

// LightTheme returns a light theme.
func LightTheme() *Theme {
	comment := core.ColorFromRGB(0, 128, 0)
	keyword := core.ColorFromRGB(0, 0, 255)
	str := core.ColorFromRGB(163, 21, 21)
	typ := core.ColorFromRGB(38, 127, 153)

	return &Theme{
		Name:          "light",
		Background:    core.ColorFromRGB(255, 255, 255),
		Foreground:    core.ColorFromRGB(0, 0, 0),
		Selection:     core.ColorFromRGB(173, 214, 255),
		LineHighlight: core.ColorFromRGB(245, 245, 245),
		SearchMatch:   core.ColorFromRGB(250, 230, 150),
		Gutter:        core.ColorFromRGB(150, 150, 150),
		GutterCurrent: core.ColorFromRGB(30, 30, 30),
		StatusLine:    core.NewStyle(core.ColorFromRGB(255, 255, 255)).WithBackground(core.ColorFromRGB(0, 122, 204)),
		TabActive:     core.NewStyle(core.ColorFromRGB(0, 0, 0)).WithBackground(core.ColorFromRGB(255, 255, 255)).Bold(),
		TabInactive:   core.NewStyle(core.ColorFromRGB(90, 90, 90)).WithBackground(core.ColorFromRGB(225, 225, 225)),
		Info:          core.ColorFromRGB(0, 90, 180),
		Warning:       core.ColorFromRGB(150, 110, 0),
		Error:         core.ColorFromRGB(205, 49, 49),
		TokenStyles: map[TokenType]core.Style{
			TokenComment:          core.NewStyle(comment).Italic(),
			TokenString:           core.NewStyle(str),
			TokenNumber:           core.NewStyle(core.ColorFromRGB(9, 134, 88)),
			TokenKeyword:          core.NewStyle(keyword),
			TokenConstantLanguage: core.NewStyle(keyword),
			TokenFunction:         core.NewStyle(core.ColorFromRGB(121, 94, 38)),
			TokenTypeName:         core.NewStyle(typ),
			TokenMeta:             core.NewStyle(core.ColorFromRGB(120, 120, 120)),
			TokenMarkupHeading:    core.NewStyle(keyword).Bold(),
			TokenMarkupBold:       core.DefaultStyle().Bold(),
			TokenMarkupItalic:     core.DefaultStyle().Italic(),
			TokenMarkupCode:       core.NewStyle(str),
			TokenMarkupLink:       core.NewStyle(typ).Underline(),
		},
	}
}

// chromaTokens maps token types to the chroma token whose style entry
// provides their colors.
var chromaTokens = map[TokenType]chroma.TokenType{
	TokenComment:            chroma.Comment,
	TokenCommentDoc:         chroma.CommentMultiline,
	TokenString:             chroma.LiteralString,
	TokenStringEscape:       chroma.LiteralStringEscape,
	TokenNumber:             chroma.LiteralNumber,
	TokenKeyword:            chroma.Keyword,
	TokenKeywordControl:     chroma.Keyword,
	TokenKeywordDeclaration: chroma.KeywordDeclaration,
	TokenOperator:           chroma.Operator,
	TokenPunctuation:        chroma.Punctuation,
	TokenConstant:           chroma.NameConstant,
	TokenConstantLanguage:   chroma.KeywordConstant,
	TokenFunction:           chroma.NameFunction,
	TokenFunctionBuiltin:    chroma.NameBuiltin,
	TokenTypeName:           chroma.NameClass,
	TokenTypeBuiltin:        chroma.KeywordType,
	TokenMeta:               chroma.CommentPreproc,
	TokenMarkupHeading:      chroma.GenericHeading,
	TokenMarkupBold:         chroma.GenericStrong,
	TokenMarkupItalic:       chroma.GenericEmph,
	TokenMarkupCode:         chroma.LiteralStringBacktick,
	TokenMarkupLink:         chroma.NameAttribute,
	TokenMarkupList:         chroma.Punctuation,
	TokenMarkupQuote:        chroma.GenericEmph,
}

// ThemeFromChroma builds a theme from a chroma style such as "monokai" or
// "dracula". Chrome colors are derived from the style's background.
func ThemeFromChroma(name string) (*Theme, error) {
	if !slices.Contains(styles.Names(), name) {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	sty := styles.Get(name)

	base := DefaultTheme()
	bgEntry := sty.Get(chroma.Background)
	if bgEntry.Background.IsSet() {
		base.Background = fromChroma(bgEntry.Background)
	}
	if txt := sty.Get(chroma.Text); txt.Colour.IsSet() {
		base.Foreground = fromChroma(txt.Colour)
	} else if bgEntry.Colour.IsSet() {
		base.Foreground = fromChroma(bgEntry.Colour)
	}

	t := &Theme{
		Name:          name,
		Background:    base.Background,
		Foreground:    base.Foreground,
		Selection:     base.Background.Blend(base.Foreground, 0.25),
		LineHighlight: base.Background.Blend(base.Foreground, 0.06),
		SearchMatch:   base.Background.Blend(base.Warning, 0.4),
		Gutter:        base.Background.Blend(base.Foreground, 0.4),
		GutterCurrent: base.Foreground,
		StatusLine:    core.NewStyle(base.Background).WithBackground(base.Foreground.Blend(base.Background, 0.2)),
		TabActive:     base.Base().Bold(),
		TabInactive:   core.NewStyle(base.Background.Blend(base.Foreground, 0.6)).WithBackground(base.Background.Blend(base.Foreground, 0.12)),
		Info:          base.Info,
		Warning:       base.Warning,
		Error:         base.Error,
		TokenStyles:   make(map[TokenType]core.Style, len(chromaTokens)),
	}
	for tt, ct := range chromaTokens {
		entry := sty.Get(ct)
		style := core.DefaultStyle()
		if entry.Colour.IsSet() {
			style = style.WithForeground(fromChroma(entry.Colour))
		}
		if entry.Bold == chroma.Yes {
			style = style.Bold()
		}
		if entry.Italic == chroma.Yes {
			style = style.Italic()
		}
		if entry.Underline == chroma.Yes {
			style = style.Underline()
		}
		if !style.IsDefault() {
			t.TokenStyles[tt] = style
		}
	}
	return t, nil
}

func fromChroma(c chroma.Colour) core.Color {
	return core.ColorFromRGB(c.Red(), c.Green(), c.Blue())
}

// ThemeRegistry holds available themes. Names it does not know are
// looked up among the chroma styles.
type ThemeRegistry struct {
	themes map[string]*Theme
}

// NewThemeRegistry creates a new theme registry with built-in themes.
func NewThemeRegistry() *ThemeRegistry {
	r := &ThemeRegistry{
		themes: make(map[string]*Theme),
	}
	r.Register(DefaultTheme())
	r.Register(LightTheme())
	return r
}

// Register adds a theme to the registry.
func (r *ThemeRegistry) Register(theme *Theme) {
	r.themes[theme.Name] = theme
}

// Get returns a theme by name. An empty name is the default theme.
func (r *ThemeRegistry) Get(name string) (*Theme, error) {
	if name == "" {
		name = "default"
	}
	if t, ok := r.themes[name]; ok {
		return t, nil
	}
	t, err := ThemeFromChroma(name)
	if err != nil {
		return nil, err
	}
	r.themes[name] = t
	return t, nil
}

// Names returns the built-in theme names followed by the chroma styles.
func (r *ThemeRegistry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, n := range styles.Names() {
		if _, ok := r.themes[n]; !ok {
			names = append(names, n)
		}
	}
	return names
}
