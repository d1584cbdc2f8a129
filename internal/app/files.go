package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
)

// fileContent is a file split into rows, with what is needed to write it
// back the way it was.
type fileContent struct {
	lines        []string
	lineEnding   buffer.LineEnding
	finalNewline bool
	raw          []byte
	exists       bool
}

// readFile loads path. A missing file yields one empty row so that it can
// be created on save; new files end with a terminator.
func readFile(path string) (fileContent, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileContent{lines: []string{""}, finalNewline: true}, nil
	}
	if err != nil {
		return fileContent{}, err
	}
	text := string(data)
	return fileContent{
		lines:        buffer.SplitLines(text),
		lineEnding:   buffer.DetectLineEnding(text),
		finalNewline: strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r"),
		raw:          data,
		exists:       true,
	}, nil
}

// encodeLines joins rows with the line ending, adding a final terminator
// when final is set.
func encodeLines(lines []string, le buffer.LineEnding, final bool) []byte {
	seq := le.Sequence()
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString(seq)
		}
		sb.WriteString(line)
	}
	if final {
		sb.WriteString(seq)
	}
	return []byte(sb.String())
}

// writeFile replaces path through a temporary file in the same directory,
// keeping the permissions of an existing file.
func writeFile(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Save writes the document to its path with its original line ending.
func (d *Document) Save() error {
	if d.Path == "" {
		return NewOperationError("save", "document", ErrNoFilePath)
	}
	buf := d.Engine.Buffer()
	data := encodeLines(buf.Lines(), buf.LineEnding(), d.finalNewline)
	if err := writeFile(d.Path, data); err != nil {
		return NewOperationError("save", "document", err).WithTarget(d.Path)
	}
	d.Engine.MarkSaved()
	return nil
}
