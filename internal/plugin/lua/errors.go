package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// ScriptError wraps a failure raised while running a chunk or callback.
type ScriptError struct {
	// Chunk names what was running: a file path, "<string>" or a key chord.
	Chunk string
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Chunk, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
