package app

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "save"},
			expected: "save",
		},
		{
			name:     "component and op",
			err:      &OperationError{Op: "save", Component: "document"},
			expected: "document: save",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "open", Target: "/path/file.txt"},
			expected: "open /path/file.txt",
		},
		{
			name:     "full error chain",
			err:      NewOperationError("open", "document", errors.New("io error")).WithTarget("/path/file.txt"),
			expected: "document: open /path/file.txt: io error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("save", "document", fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, err, err)
	assert.NotErrorIs(t, err, NewOperationError("save", "document", fs.ErrPermission))

	var nilErr *OperationError
	assert.False(t, nilErr.Is(fs.ErrPermission))
	assert.Nil(t, nilErr.WithTarget("x"))
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	assert.NoError(t, list.AsError())

	list.Add(nil)
	list.Add(ErrDocumentNotFound)
	assert.Equal(t, "document not found", list.Error())

	list.Add(ErrNoFilePath)
	assert.Equal(t, "2 errors: first: document not found", list.Error())
	assert.ErrorIs(t, list.AsError(), ErrNoFilePath)
	assert.Len(t, list.Errors(), 2)
}
