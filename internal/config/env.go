package config

import (
	"os"
	"strconv"
	"strings"
)

// envMapping lists the environment variables that override file values.
var envMapping = map[string]func(c *Config, v string) error{
	"QUILL_TAB_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Path: "editor.tab_width", Message: "not an integer", Value: v}
		}
		c.Editor.TabWidth = n
		return nil
	},
	"QUILL_THEME": func(c *Config, v string) error {
		c.Highlight.Theme = v
		return nil
	},
	"QUILL_LOG_FILE": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	"QUILL_LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
	"QUILL_HIGHLIGHT": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ValidationError{Path: "highlight.enabled", Message: "not a boolean", Value: v}
		}
		c.Highlight.Enabled = b
		return nil
	},
}

// ApplyEnv overrides c from QUILL_* variables found by lookup and
// revalidates. A nil lookup reads the process environment.
// Note: Empty values are treated as unset.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for name, apply := range envMapping {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := apply(c, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	return c.Validate()
}
