package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Save(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	content := "book bytes"
	artifact, err := store.Save("books", "my book.epub", strings.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), artifact.Size)
	assert.True(t, strings.HasPrefix(artifact.Path, "books/"))
	// Spaces in the original name are replaced, the extension survives.
	assert.True(t, strings.HasSuffix(artifact.Path, "_my_book.epub"))

	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(sum[:]), artifact.Checksum)
}

func TestLocal_Save_UniqueNames(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("books", "same.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save("books", "same.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestLocal_OpenRoundTrip(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	artifact, err := store.Save("books", "read.txt", strings.NewReader("readable"))
	require.NoError(t, err)

	reader, err := store.Open(artifact.Path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "readable", string(data))
}

func TestLocal_Remove(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	artifact, err := store.Save("books", "gone.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(artifact.Path))

	err = store.Remove(artifact.Path)
	assert.True(t, store.IsNotFound(err))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "plain.pdf", sanitizeFilename("plain.pdf"))
	assert.Equal(t, "with_spaces.pdf", sanitizeFilename("with spaces.pdf"))
	// Path components are stripped down to the base name.
	assert.Equal(t, "traversal.pdf", sanitizeFilename("../../traversal.pdf"))
}
