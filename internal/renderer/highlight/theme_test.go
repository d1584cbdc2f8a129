package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/renderer/core"
)

func TestThemeStyleForToken(t *testing.T) {
	theme := DefaultTheme()

	decl := theme.StyleForToken(TokenKeywordDeclaration)
	assert.True(t, decl.Equals(theme.TokenStyles[TokenKeywordDeclaration]))

	// No entry for the builtin: falls back to "function".
	builtin := theme.StyleForToken(TokenFunctionBuiltin)
	assert.True(t, builtin.Equals(theme.TokenStyles[TokenFunction]))

	plain := theme.StyleForToken(TokenPunctuation)
	assert.True(t, plain.Foreground.Equals(theme.Foreground))
}

func TestThemeWithOverrides(t *testing.T) {
	theme := DefaultTheme()

	got, err := theme.WithOverrides(map[string]string{
		"keyword":   "#ff0000",
		"selection": "010203",
	})
	require.NoError(t, err)
	assert.True(t, got.StyleForToken(TokenKeyword).Foreground.Equals(core.ColorFromRGB(255, 0, 0)))
	assert.True(t, got.Selection.Equals(core.ColorFromRGB(1, 2, 3)))

	// The original is untouched.
	assert.False(t, theme.StyleForToken(TokenKeyword).Foreground.Equals(core.ColorFromRGB(255, 0, 0)))

	_, err = theme.WithOverrides(map[string]string{"no.such.scope": "#ffffff"})
	assert.Error(t, err)
	_, err = theme.WithOverrides(map[string]string{"keyword": "#zzzzzz"})
	assert.Error(t, err)
}

func TestThemeFromChroma(t *testing.T) {
	theme, err := ThemeFromChroma("monokai")
	require.NoError(t, err)
	assert.Equal(t, "monokai", theme.Name)
	assert.False(t, theme.Background.IsDefault())
	assert.NotEmpty(t, theme.TokenStyles)

	_, err = ThemeFromChroma("no-such-style")
	assert.Error(t, err)
}

func TestThemeRegistry(t *testing.T) {
	r := NewThemeRegistry()

	def, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "default", def.Name)

	light, err := r.Get("light")
	require.NoError(t, err)
	assert.Equal(t, "light", light.Name)

	dracula, err := r.Get("dracula")
	require.NoError(t, err)
	again, err := r.Get("dracula")
	require.NoError(t, err)
	assert.Same(t, dracula, again)

	_, err = r.Get("nope")
	assert.Error(t, err)

	assert.Contains(t, r.Names(), "monokai")
}

func TestRegistryDetect(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		file    string
		content string
		want    string
	}{
		{"main.go", "", "Go"},
		{"README.MD", "", "Markdown"},
		{"init.lua", "", "Lua"},
		{"notes.unknownext", "", ""},
		{"script", "#!/usr/bin/env python\nprint(1)\n", "Python"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Detect(tt.file, []byte(tt.content)))
		})
	}
}

func TestRegistryLexer(t *testing.T) {
	r := DefaultRegistry()

	lx, err := r.Lexer("Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", lx.Name())

	again, _ := r.Lexer("Go")
	assert.Same(t, lx, again)

	lx, err = r.Lexer("Plain")
	assert.NoError(t, err)
	assert.Nil(t, lx)

	r.Register(NewLanguage("Broken", ".broken").Pattern("[", TokenNumber))
	_, err = r.Lexer("Broken")
	var ruleErr *HighlightRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "Broken", r.Detect("x.broken", nil))

	assert.Contains(t, r.Languages(), "Rust")
}
