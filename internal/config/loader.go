package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath returns the user configuration file,
// $XDG_CONFIG_HOME/quill/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quill", "config.toml"), nil
}

// Load reads and validates the file at path. A missing file is not an
// error: the defaults are returned together with ErrFileNotFound so the
// caller can tell the difference if it cares.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), ErrFileNotFound
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML data over the defaults and validates the result.
// source names the data in errors.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, parseError(source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseError converts a go-toml error into a *ParseError carrying the
// position of the first problem.
func parseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) && len(strict.Errors) > 0 {
		first := &strict.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = fmt.Sprintf("unknown key %q", joinKey(first.Key()))
		return pe
	}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		pe.Line, pe.Column = decodeErr.Position()
		pe.Message = decodeErr.Error()
	}
	return pe
}

func joinKey(key toml.Key) string {
	var buf bytes.Buffer
	for i, k := range key {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(k)
	}
	return buf.String()
}
