package sounds

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSounds(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}
}

func TestCatalog_List(t *testing.T) {
	root := t.TempDir()
	writeSounds(t, filepath.Join(root, "bells"), "tingsha.mp3", "bowl.mp3", "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bells", "nested.mp3"), 0o755))

	got, err := NewCatalog(root).List(CategoryBells)

	require.NoError(t, err)
	assert.Equal(t, []Sound{
		{ID: "bowl", Filename: "bowl.mp3", Path: "/sounds/bells/bowl.mp3"},
		{ID: "tingsha", Filename: "tingsha.mp3", Path: "/sounds/bells/tingsha.mp3"},
	}, got)
}

func TestCatalog_List_MissingDirectory(t *testing.T) {
	got, err := NewCatalog(t.TempDir()).List(CategoryAmbient)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalog_List_UnknownCategory(t *testing.T) {
	_, err := NewCatalog(t.TempDir()).List("../etc")

	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCatalog_Open(t *testing.T) {
	root := t.TempDir()
	writeSounds(t, filepath.Join(root, "ambient"), "rain.mp3")
	catalog := NewCatalog(root)

	f, err := catalog.Open(CategoryAmbient, "rain.mp3")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "rain.mp3", string(body))

	_, err = catalog.Open(CategoryAmbient, "../ambient/rain.mp3")
	assert.Error(t, err)
}
