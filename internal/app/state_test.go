package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine/buffer"
)

func TestStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "state.json")
	s, err := OpenStateStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	files := []string{
		"/home/me/main.go",
		"/srv/a.b.c/file.tar.gz",
		"/tmp/what?*.txt",
		`C:\Users\me\notes.txt`,
		"/data/with space/x|y#z",
	}
	for i, f := range files {
		require.NoError(t, s.Remember(f, buffer.Pt(i, i+1)))
	}

	reopened, err := OpenStateStore(path)
	require.NoError(t, err)
	assert.Equal(t, len(files), reopened.Len())
	for i, f := range files {
		p, ok := reopened.Cursor(f)
		require.True(t, ok, f)
		assert.Equal(t, buffer.Pt(i, i+1), p, f)
	}

	_, ok := reopened.Cursor("/not/remembered")
	assert.False(t, ok)
}

func TestStateStoreOverwrites(t *testing.T) {
	s, err := OpenStateStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, s.Remember("/a.txt", buffer.Pt(1, 1)))
	require.NoError(t, s.Remember("/a.txt", buffer.Pt(7, 3)))

	p, ok := s.Cursor("/a.txt")
	require.True(t, ok)
	assert.Equal(t, buffer.Pt(7, 3), p)
	assert.Equal(t, 1, s.Len())
}

func TestStateStorePrunesOldest(t *testing.T) {
	s, err := OpenStateStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	s.maxEntries = 2

	clock := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	require.NoError(t, s.Remember("/one", buffer.Pt(1, 0)))
	require.NoError(t, s.Remember("/two", buffer.Pt(2, 0)))
	require.NoError(t, s.Remember("/three", buffer.Pt(3, 0)))

	assert.Equal(t, 2, s.Len())
	_, ok := s.Cursor("/one")
	assert.False(t, ok)
	_, ok = s.Cursor("/two")
	assert.True(t, ok)
	_, ok = s.Cursor("/three")
	assert.True(t, ok)
}

func TestStateStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenStateStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	require.NoError(t, s.Remember("/x", buffer.Pt(0, 2)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cursors":{"/x":{"row":0,"col":2,"t":1700000000}}}`, string(data))
}

func TestStateStoreIgnoresBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cursors":{"/neg":{"row":-1,"col":0},"/str":"x","/half":{"row":2}}}`), 0o600))

	s, err := OpenStateStore(path)
	require.NoError(t, err)
	for _, f := range []string{"/neg", "/str", "/half"} {
		_, ok := s.Cursor(f)
		assert.False(t, ok, f)
	}
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "/a/b_c-d", escapeKey("/a/b_c-d"))
	assert.Equal(t, `/a\.go`, escapeKey("/a.go"))
	assert.Equal(t, `x\*\?`, escapeKey("x*?"))
	assert.Equal(t, "/é", escapeKey("/é"))
}
