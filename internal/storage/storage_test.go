package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "docs")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	name, size, err := store.Save(ctx, strings.NewReader("hello board"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)
	assert.True(t, strings.HasSuffix(name, ".txt"))

	ok, err := store.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := store.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "hello board", string(data))

	require.NoError(t, store.Delete(ctx, name))
	ok, err = store.Exists(ctx, name)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, name))

	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files left behind")
}

func TestLocalStore_UniqueNames(t *testing.T) {
	store, _ := newTestStore(t)
	a, _, err := store.Save(context.Background(), strings.NewReader("a"), ".md")
	require.NoError(t, err)
	b, _, err := store.Save(context.Background(), strings.NewReader("a"), ".md")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"", "../secret", "a/b.txt", ".hidden", `..\x`} {
		_, err := store.Exists(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, store.Delete(ctx, name), ErrInvalidName, name)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".pdf", Extension("Spec.PDF", "application/octet-stream"))
	assert.Equal(t, ".png", Extension("screenshot", "image/png"))
	assert.Equal(t, ".txt", Extension("notes", "text/plain; charset=utf-8"))
	assert.Equal(t, ".csv", Extension("weird.c$v", "text/csv"))
	assert.Equal(t, "", Extension("blob", "application/octet-stream"))
}
