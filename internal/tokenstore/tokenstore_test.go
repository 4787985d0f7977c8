package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", Key)
	s := NewFileStore(path)

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok, "missing file reads as no token")

	require.NoError(t, s.Save("tok-123"))
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestFileStore_ClearMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), Key))
	assert.NoError(t, s.Clear())
}

func TestDefaultFileStore_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "automize", Key), DefaultFileStore().Path())
}

func TestMemoryStore(t *testing.T) {
	var s Store = NewMemoryStore("a")
	tok, _ := s.Load()
	assert.Equal(t, "a", tok)
	require.NoError(t, s.Save("b"))
	tok, _ = s.Load()
	assert.Equal(t, "b", tok)
	require.NoError(t, s.Clear())
	tok, _ = s.Load()
	assert.Empty(t, tok)
}
