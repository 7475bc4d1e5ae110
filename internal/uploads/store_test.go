package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("image-bytes"), "portrait.JPG")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".jpg"))
	require.NotEqual(t, "portrait.jpg", name)

	content, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(content))

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	require.True(t, os.IsNotExist(err))
}

func TestSave_UnsupportedExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(strings.NewReader("x"), "script.sh")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRemove_DefaultSentinel(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	// Even if a file by that name exists it must be left alone.
	path := filepath.Join(dir, DefaultImage)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))

	require.NoError(t, store.Remove(DefaultImage))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Remove(""))
}

func TestRemove_MissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Remove("never-existed.png"))
}

func TestRemove_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(dir), "outside.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	require.NoError(t, store.Remove("../outside.png"))
	_, err = os.Stat(outside)
	require.NoError(t, err)
}
