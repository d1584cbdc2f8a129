package app

import (
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/viewport"
)

// Document represents an open file with its associated editor state.
type Document struct {
	// ID identifies the document for its lifetime, independent of path.
	ID uuid.UUID

	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Engine is the text buffer and editing engine.
	Engine *engine.Engine

	// Language is the detected language name, empty for plain text.
	Language string

	// Highlighter is nil when the document is shown as plain text.
	Highlighter *highlight.Highlighter

	Viewport *viewport.Viewport

	// finalNewline records whether the file ended with a line terminator.
	finalNewline bool

	// match is the last search hit, shown while the primary selection
	// still covers it.
	match *buffer.Range
}

// newDocument wraps eng and wires its buffer to the highlighter.
func newDocument(path string, eng *engine.Engine, hl *highlight.Highlighter) *Document {
	d := &Document{
		ID:          uuid.New(),
		Path:        path,
		Name:        "Untitled",
		Engine:      eng,
		Highlighter: hl,
		Viewport:    viewport.NewViewport(1, 1),
	}
	if path != "" {
		d.Name = filepath.Base(path)
	}
	eng.Buffer().Observe(d.observe)
	return d
}

// observe translates buffer ops into highlighter row notifications.
func (d *Document) observe(op buffer.Op) {
	hl := d.Highlighter
	if hl == nil {
		return
	}
	switch op.Kind {
	case buffer.OpInsert, buffer.OpDelete:
		hl.MarkDirty(op.Row)
	case buffer.OpSplit, buffer.OpInsertBlock:
		hl.MarkDirty(op.Row)
		hl.InsertRows(op.Row+1, op.Breaks())
	case buffer.OpJoin, buffer.OpDeleteBlock:
		hl.RemoveRows(op.Row+1, op.Breaks())
		hl.MarkDirty(op.Row)
	}
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.Engine.Modified()
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Content returns the full document content.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// Match returns the search hit while the primary selection covers it.
func (d *Document) Match() *buffer.Range {
	if d.match == nil {
		return nil
	}
	p := d.Engine.Primary()
	if !p.HasSelection() || p.Range() != *d.match {
		d.match = nil
		return nil
	}
	return d.match
}

// DocumentManager keeps the open documents in tab order.
type DocumentManager struct {
	docs    []*Document
	active  int
	counter int // for naming scratch buffers
}

// NewDocumentManager creates an empty document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{active: -1}
}

// Add appends doc and makes it active. Scratch documents get a numbered
// name after the first.
func (dm *DocumentManager) Add(doc *Document) {
	if doc.IsScratch() {
		dm.counter++
		if dm.counter > 1 {
			doc.Name = "Untitled-" + strconv.Itoa(dm.counter)
		}
	}
	dm.docs = append(dm.docs, doc)
	dm.active = len(dm.docs) - 1
}

// FindPath returns the open document for an absolute path.
func (dm *DocumentManager) FindPath(path string) (*Document, bool) {
	for _, d := range dm.docs {
		if d.Path != "" && d.Path == path {
			return d, true
		}
	}
	return nil, false
}

// Remove closes the document with the given ID. The document to its left
// becomes active when the active one is removed.
func (dm *DocumentManager) Remove(id uuid.UUID) error {
	idx := dm.index(id)
	if idx < 0 {
		return ErrDocumentNotFound
	}
	dm.docs = append(dm.docs[:idx], dm.docs[idx+1:]...)
	switch {
	case len(dm.docs) == 0:
		dm.active = -1
	case idx < dm.active || dm.active >= len(dm.docs):
		dm.active--
	case idx == dm.active && idx > 0:
		dm.active--
	}
	return nil
}

func (dm *DocumentManager) index(id uuid.UUID) int {
	for i, d := range dm.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the currently active document, nil when none is open.
func (dm *DocumentManager) Active() *Document {
	if dm.active < 0 || dm.active >= len(dm.docs) {
		return nil
	}
	return dm.docs[dm.active]
}

// ActiveIndex returns the tab index of the active document.
func (dm *DocumentManager) ActiveIndex() int {
	return dm.active
}

// SetActive activates the document with the given ID.
func (dm *DocumentManager) SetActive(id uuid.UUID) error {
	idx := dm.index(id)
	if idx < 0 {
		return ErrDocumentNotFound
	}
	dm.active = idx
	return nil
}

// All returns the open documents in tab order.
func (dm *DocumentManager) All() []*Document {
	return append([]*Document(nil), dm.docs...)
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	return len(dm.docs)
}

// DirtyDocuments returns all documents with unsaved changes.
func (dm *DocumentManager) DirtyDocuments() []*Document {
	var dirty []*Document
	for _, doc := range dm.docs {
		if doc.IsModified() {
			dirty = append(dirty, doc)
		}
	}
	return dirty
}

// Next activates and returns the next document, wrapping around.
func (dm *DocumentManager) Next() *Document {
	if len(dm.docs) == 0 {
		return nil
	}
	dm.active = (dm.active + 1) % len(dm.docs)
	return dm.docs[dm.active]
}

// Previous activates and returns the previous document, wrapping around.
func (dm *DocumentManager) Previous() *Document {
	if len(dm.docs) == 0 {
		return nil
	}
	dm.active = (dm.active - 1 + len(dm.docs)) % len(dm.docs)
	return dm.docs[dm.active]
}
