package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrDocumentNotFound indicates a document was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrNoFilePath indicates a save of a document that has no path.
	ErrNoFilePath = errors.New("no file path")

	// ErrDocumentOpen indicates a save-as target is open in another
	// document.
	ErrDocumentOpen = errors.New("file is open in another document")

	// ErrUnknownAction indicates a key binding names no action.
	ErrUnknownAction = errors.New("unknown action")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op        string // Operation name (e.g., "save", "open", "close")
	Component string // Component that failed (e.g., "document", "script")
	Target    string // Target of the operation (e.g., file path)
	Err       error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, component string, err error) *OperationError {
	return &OperationError{
		Op:        op,
		Component: component,
		Err:       err,
	}
}

// WithTarget sets the target of the operation.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithTarget(target string) *OperationError {
	if e == nil {
		return nil
	}
	e.Target = target
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Component != "" {
		msg = fmt.Sprintf("%s: %s", e.Component, msg)
	}
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// ErrorList collects multiple errors.
// NOTE: ErrorList is NOT safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.errors) > 0
}

// Errors returns a copy of the error slice.
func (e *ErrorList) Errors() []error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}
	out := make([]error, len(e.errors))
	copy(out, e.errors)
	return out
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.Errors()
}
