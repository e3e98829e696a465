package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader errors after yielding half its payload, like a client that
// disconnects mid-upload.
type failingReader struct {
	data []byte
	pos  int
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.pos >= len(f.data)/2 {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, f.data[f.pos:len(f.data)/2])
	f.pos += n
	return n, nil
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	payload := []byte("binary image bytes")
	err := store.Put(ctx, "photo/u1/123-456.png", "image/png", bytes.NewReader(payload))
	require.NoError(t, err)

	rc, err := store.Get(ctx, "photo/u1/123-456.png")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Get(context.Background(), "photo/u1/absent.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStoreAbortedWriteLeavesNothing(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	ctx := context.Background()

	payload := make([]byte, 1<<20)
	err := store.Put(ctx, "videos/u1/1-2.mp4", "video/mp4", &failingReader{data: payload})
	require.Error(t, err)

	// the key must not resolve
	_, err = store.Get(ctx, "videos/u1/1-2.mp4")
	assert.True(t, errors.Is(err, ErrNotFound))

	// and no temp leftovers in the namespace directory
	entries, err := os.ReadDir(filepath.Join(root, "videos", "u1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreNamespaceCreatedIdempotently(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "photo/u1/a.png", "image/png", bytes.NewReader([]byte("a"))))
	require.NoError(t, store.Put(ctx, "photo/u1/b.png", "image/png", bytes.NewReader([]byte("b"))))

	rc, err := store.Get(ctx, "photo/u1/b.png")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, []byte("b"), got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", "image/png", bytes.NewReader([]byte("v"))))
	rc, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, store.Len())

	// a failing reader must not create an entry
	err = store.Put(ctx, "half", "video/mp4", &failingReader{data: make([]byte, 1024)})
	require.Error(t, err)
	_, err = store.Get(ctx, "half")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, store.Len())
}
