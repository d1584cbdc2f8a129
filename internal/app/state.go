package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/quill/internal/engine/buffer"
)

// DefaultStateEntries is how many files the state store remembers.
const DefaultStateEntries = 200

// StateStore remembers the last cursor position per file in a small JSON
// document:
//
//	{"cursors": {"/abs/path": {"row": 3, "col": 0, "t": 1700000000}}}
//
// The file is read once and rewritten on every change.
type StateStore struct {
	path       string
	json       string
	maxEntries int
	now        func() time.Time
}

// DefaultStatePath returns the state file under the user cache directory.
func DefaultStatePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quill", "state.json"), nil
}

// OpenStateStore reads the state file at path. A missing or corrupt file
// starts empty.
func OpenStateStore(path string) (*StateStore, error) {
	s := &StateStore{
		path:       path,
		json:       "{}",
		maxEntries: DefaultStateEntries,
		now:        time.Now,
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if gjson.ValidBytes(data) {
		s.json = string(data)
	}
	return s, nil
}

// Path returns the backing file.
func (s *StateStore) Path() string {
	return s.path
}

// Cursor returns the remembered cursor for file.
func (s *StateStore) Cursor(file string) (buffer.Point, bool) {
	entry := gjson.Get(s.json, "cursors."+escapeKey(file))
	if !entry.IsObject() {
		return buffer.Point{}, false
	}
	row, col := entry.Get("row"), entry.Get("col")
	if !row.Exists() || !col.Exists() || row.Int() < 0 || col.Int() < 0 {
		return buffer.Point{}, false
	}
	return buffer.Pt(int(row.Int()), int(col.Int())), true
}

// Remember records the cursor for file, drops the oldest entries beyond
// the limit and writes the store.
func (s *StateStore) Remember(file string, p buffer.Point) error {
	key := "cursors." + escapeKey(file)
	next, err := sjson.Set(s.json, key+".row", p.Row)
	if err == nil {
		next, err = sjson.Set(next, key+".col", p.Col)
	}
	if err == nil {
		next, err = sjson.Set(next, key+".t", s.now().Unix())
	}
	if err != nil {
		return fmt.Errorf("remember cursor: %w", err)
	}
	s.json = s.prune(next)
	return s.flush()
}

// Len returns the number of remembered files.
func (s *StateStore) Len() int {
	n := 0
	gjson.Get(s.json, "cursors").ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}

func (s *StateStore) prune(doc string) string {
	type entry struct {
		key string
		t   int64
	}
	var entries []entry
	gjson.Get(doc, "cursors").ForEach(func(k, v gjson.Result) bool {
		entries = append(entries, entry{key: k.String(), t: v.Get("t").Int()})
		return true
	})
	if len(entries) <= s.maxEntries {
		return doc
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].t < entries[j].t })
	for _, e := range entries[:len(entries)-s.maxEntries] {
		if pruned, err := sjson.Delete(doc, "cursors."+escapeKey(e.key)); err == nil {
			doc = pruned
		}
	}
	return doc
}

func (s *StateStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("state directory: %w", err)
	}
	if err := writeFile(s.path, []byte(s.json)); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// escapeKey makes a file path usable as one gjson/sjson path component.
func escapeKey(key string) string {
	var sb strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < 0x80 && !isAlnum(c) && c != '/' && c != '_' && c != '-' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
