package engine

import (
	"errors"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrPositionOutOfBounds indicates a position outside the document.
	ErrPositionOutOfBounds = buffer.ErrPositionOutOfBounds

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrEmptyUndoStack

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrEmptyRedoStack

	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrEmptyQuery indicates a search with no text.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrNotFound indicates a search with no match.
	ErrNotFound = errors.New("not found")
)
