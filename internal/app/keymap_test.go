package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/renderer/backend"
)

func TestDefaultKeysNameKnownActions(t *testing.T) {
	known := actions()
	for chord, name := range DefaultKeys() {
		norm, err := backend.NormalizeChord(chord)
		require.NoError(t, err, chord)
		assert.Equal(t, chord, norm, "default chord %q is not canonical", chord)
		assert.Contains(t, known, name, chord)
	}
}

func TestKeymapLookup(t *testing.T) {
	km, err := NewKeymap(nil)
	require.NoError(t, err)

	fn, name, action := km.Lookup("ctrl+s")
	assert.Nil(t, fn)
	assert.Equal(t, "save", name)
	assert.NotNil(t, action)

	fn, name, action = km.Lookup("ctrl+j")
	assert.Nil(t, fn)
	assert.Empty(t, name)
	assert.Nil(t, action)
}

func TestKeymapOverrides(t *testing.T) {
	km, err := NewKeymap(map[string]string{"ctrl+s": "undo", "f5": "save"})
	require.NoError(t, err)

	name, ok := km.Binding("ctrl+s")
	require.True(t, ok)
	assert.Equal(t, "undo", name)
	name, _ = km.Binding("f5")
	assert.Equal(t, "save", name)

	err = km.SetOverrides(map[string]string{"f6": "explode"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	name, _ = km.Binding("ctrl+s")
	assert.Equal(t, "undo", name, "failed override must not change the keymap")

	require.NoError(t, km.SetOverrides(nil))
	name, _ = km.Binding("ctrl+s")
	assert.Equal(t, "save", name)
	_, ok = km.Binding("f5")
	assert.False(t, ok)

	_, err = NewKeymap(map[string]string{"ctrl+x": "nope"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestKeymapScriptBindingsWin(t *testing.T) {
	km, err := NewKeymap(nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	require.NoError(t, km.BindScript("Ctrl+S", func() error { return boom }))

	fn, name, action := km.Lookup("ctrl+s")
	require.NotNil(t, fn)
	assert.Empty(t, name)
	assert.Nil(t, action)
	assert.ErrorIs(t, fn(), boom)

	assert.Error(t, km.BindScript("", func() error { return nil }))
}
