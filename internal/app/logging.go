package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// File receives the log. Empty discards everything: the terminal
	// belongs to the editor.
	File string

	// Level is the minimum level written.
	Level zerolog.Level
}

// NewLogger opens the log file and returns a logger writing to it with a
// timestamp on every event. The returned closer releases the file.
func NewLogger(cfg LoggerConfig) (zerolog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriterLogger(f, cfg.Level), f, nil
}

// NewWriterLogger returns a logger writing JSON lines to w.
func NewWriterLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// component returns a child logger tagged with the component name.
func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
