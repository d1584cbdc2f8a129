package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/highlight"
)

// Config is the complete editor configuration.
type Config struct {
	Editor    EditorConfig    `toml:"editor"`
	Undo      UndoConfig      `toml:"undo"`
	Highlight HighlightConfig `toml:"highlight"`

	// Colors overrides theme colors. Keys are UI names or token scopes,
	// values are hex colors.
	Colors map[string]string `toml:"colors"`

	// Keys maps key chords to action names. Chords are normalized by
	// Validate.
	Keys map[string]string `toml:"keys"`

	Log    LogConfig    `toml:"log"`
	Script ScriptConfig `toml:"script"`
}

// EditorConfig holds the [editor] section.
type EditorConfig struct {
	TabWidth    int    `toml:"tab_width"`
	WrapCursor  bool   `toml:"wrap_cursor"`
	LineNumbers string `toml:"line_numbers"`
	TabLine     bool   `toml:"tab_line"`
	ScrollRows  int    `toml:"scroll_rows"`
	ScrollCols  int    `toml:"scroll_cols"`
}

// UndoConfig holds the [undo] section.
type UndoConfig struct {
	IdleMS            int  `toml:"idle_ms"`
	BreakOnWhitespace bool `toml:"break_on_whitespace"`
	MaxEntries        int  `toml:"max_entries"`
}

// HighlightConfig holds the [highlight] section.
type HighlightConfig struct {
	Enabled bool   `toml:"enabled"`
	Theme   string `toml:"theme"`

	// WarmupRows is the document size above which highlighting of the
	// rows outside the view runs in the background. Zero disables it, except
	// for rows that had to be lexed from a guessed state.
	WarmupRows int `toml:"warmup_rows"`
}

// LogConfig holds the [log] section.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// ScriptConfig holds the [script] section.
type ScriptConfig struct {
	Init string `toml:"init"`
}

// Line number modes accepted by editor.line_numbers.
const (
	LineNumbersAbsolute = "absolute"
	LineNumbersRelative = "relative"
	LineNumbersHybrid   = "hybrid"
	LineNumbersOff      = "off"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:    4,
			WrapCursor:  true,
			LineNumbers: LineNumbersAbsolute,
			TabLine:     true,
			ScrollRows:  3,
			ScrollCols:  8,
		},
		Undo: UndoConfig{
			IdleMS:            int(history.DefaultIdleGap / time.Millisecond),
			BreakOnWhitespace: true,
			MaxEntries:        history.DefaultMaxEntries,
		},
		Highlight: HighlightConfig{
			Enabled:    true,
			Theme:      "default",
			WarmupRows: 2000,
		},
		Colors: map[string]string{},
		Keys:   map[string]string{},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Colors = make(map[string]string, len(c.Colors))
	for k, v := range c.Colors {
		out.Colors[k] = v
	}
	out.Keys = make(map[string]string, len(c.Keys))
	for k, v := range c.Keys {
		out.Keys[k] = v
	}
	return &out
}

// Validate checks ranges and formats, and rewrites key chords into their
// canonical form. The first problem found is returned as a
// *ValidationError.
func (c *Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return &ValidationError{Path: "editor.tab_width", Message: "must be between 1 and 16", Value: c.Editor.TabWidth}
	}
	switch c.Editor.LineNumbers {
	case LineNumbersAbsolute, LineNumbersRelative, LineNumbersHybrid, LineNumbersOff:
	default:
		return &ValidationError{Path: "editor.line_numbers", Message: "must be absolute, relative, hybrid or off", Value: c.Editor.LineNumbers}
	}
	if c.Editor.ScrollRows < 0 {
		return &ValidationError{Path: "editor.scroll_rows", Message: "must not be negative", Value: c.Editor.ScrollRows}
	}
	if c.Editor.ScrollCols < 0 {
		return &ValidationError{Path: "editor.scroll_cols", Message: "must not be negative", Value: c.Editor.ScrollCols}
	}
	if c.Undo.IdleMS < 0 {
		return &ValidationError{Path: "undo.idle_ms", Message: "must not be negative", Value: c.Undo.IdleMS}
	}
	if c.Undo.MaxEntries < 1 {
		return &ValidationError{Path: "undo.max_entries", Message: "must be at least 1", Value: c.Undo.MaxEntries}
	}
	if c.Highlight.WarmupRows < 0 {
		return &ValidationError{Path: "highlight.warmup_rows", Message: "must not be negative", Value: c.Highlight.WarmupRows}
	}
	if _, err := c.LogLevel(); err != nil {
		return &ValidationError{Path: "log.level", Message: err.Error(), Value: c.Log.Level}
	}

	for key, value := range c.Colors {
		if _, err := core.ParseColor(value); err != nil {
			return &ValidationError{Path: "colors." + key, Message: "not a color", Value: value}
		}
	}

	keys := make(map[string]string, len(c.Keys))
	for chord, action := range c.Keys {
		norm, err := backend.NormalizeChord(chord)
		if err != nil {
			return &ValidationError{Path: "keys." + chord, Message: err.Error(), Value: action}
		}
		if strings.TrimSpace(action) == "" {
			return &ValidationError{Path: "keys." + chord, Message: "empty action", Value: action}
		}
		keys[norm] = strings.TrimSpace(action)
	}
	c.Keys = keys
	return nil
}

// UndoPolicy returns the coalescing policy for the transaction log.
func (c *Config) UndoPolicy() history.Policy {
	return history.Policy{
		IdleGap:           time.Duration(c.Undo.IdleMS) * time.Millisecond,
		BreakOnWhitespace: c.Undo.BreakOnWhitespace,
	}
}

// LogLevel parses log.level. An empty level is info.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// Theme resolves highlight.theme in reg and applies the [colors]
// overrides.
func (c *Config) Theme(reg *highlight.ThemeRegistry) (*highlight.Theme, error) {
	theme, err := reg.Get(c.Highlight.Theme)
	if err != nil {
		return nil, err
	}
	if len(c.Colors) == 0 {
		return theme, nil
	}
	return theme.WithOverrides(c.Colors)
}
