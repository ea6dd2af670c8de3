package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	filename, err := store.Save(ctx, "photo", ".jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "photo-"))
	assert.True(t, strings.HasSuffix(filename, ".jpg"))

	rc, mime, err := store.Open(ctx, filename)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, rc.Close()) })

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
	assert.Equal(t, "image/jpeg", mime)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := store.Save(ctx, "photo", ".png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "photo", ".png", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "nope.jpg")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	filename, err := store.Save(ctx, "photo", ".gif", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, filename))
	_, _, err = store.Open(ctx, filename)
	assert.Error(t, err)
}

func TestPathTraversalRejected(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	err = store.Delete(context.Background(), "../escape.jpg")
	assert.Error(t, err)
}
