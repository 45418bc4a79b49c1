package library

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "track.mp3"), []byte("audio-bytes"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "album"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "album", "song.mp3"), []byte("more-audio"), 0644))

	lib, err := NewWithRoot(root)
	require.NoError(t, err)
	return lib
}

func TestNewRequiresRoot(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewWithRoot(file)
	assert.Error(t, err)
}

func TestNewCreateDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")

	lib, err := New(Config{Root: root, CreateDir: true})
	require.NoError(t, err)

	info, err := os.Stat(lib.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen(t *testing.T) {
	lib := newTestLibrary(t)

	rc, err := lib.Open("track.mp3")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestOpenSubdirectory(t *testing.T) {
	lib := newTestLibrary(t)

	rc, err := lib.Open("album/song.mp3")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("more-audio"), data)
}

func TestOpenMissingFile(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Open("missing.mp3")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenDirectory(t *testing.T) {
	lib := newTestLibrary(t)

	// Directories are not streamable content
	_, err := lib.Open("album")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenRejectsUnsafeNames(t *testing.T) {
	lib := newTestLibrary(t)

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"absolute", "/etc/passwd"},
		{"parent traversal", "../outside.mp3"},
		{"nested traversal", "album/../../outside.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Open(tt.key)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestOpenAllowsInternalDotDot(t *testing.T) {
	lib := newTestLibrary(t)

	// "album/../track.mp3" cleans to "track.mp3", which stays inside the root
	rc, err := lib.Open("album/../track.mp3")
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}
