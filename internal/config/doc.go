// Package config loads the quill configuration.
//
// Configuration is a single TOML file decoded into a typed Config. Keys the
// editor does not know are an error, reported as a *ParseError with the
// line and column of the offending key. Missing sections and keys keep
// their defaults.
//
// # File format
//
//	[editor]
//	tab_width = 4
//	wrap_cursor = true
//	line_numbers = "absolute"   # absolute, relative, hybrid or off
//	tab_line = true
//	scroll_rows = 3
//	scroll_cols = 8
//
//	[undo]
//	idle_ms = 1000
//	break_on_whitespace = true
//	max_entries = 1000
//
//	[highlight]
//	enabled = true
//	theme = "default"
//	warmup_rows = 2000
//
//	[colors]
//	background = "#1e1e1e"
//	keyword = "#c586c0"
//
//	[keys]
//	"ctrl+s" = "save"
//
//	[log]
//	file = "/tmp/quill.log"
//	level = "info"
//
//	[script]
//	init = "~/.config/quill/init.lua"
//
// A handful of QUILL_* environment variables override file values; see
// ApplyEnv.
//
// # Live reload
//
// The watcher sub-package reports changes to the file. Reloading is done by
// the caller, which decides how to apply the new values.
package config
