package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/pkg/storage"
)

func TestLocalDisk_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	d, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/1/a.jpg", strings.NewReader("jpeg"), "image/jpeg"))

	ok, err := d.Exists(ctx, "products/1/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := d.Get(ctx, "products/1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
	assert.Equal(t, "http://cdn.test/storage/products/1/a.jpg", d.URL("products/1/a.jpg"))

	require.NoError(t, d.Delete(ctx, "products/1/a.jpg"))
	require.NoError(t, d.Delete(ctx, "products/1/a.jpg"))

	_, err = d.Get(ctx, "products/1/a.jpg")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := storage.NewLocal(root, "http://cdn.test")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	ok, err := d.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "traversal should be clamped to the root")
}

func TestManager_DiskLookup(t *testing.T) {
	d, err := storage.NewLocal(t.TempDir(), "http://cdn.test")
	require.NoError(t, err)

	m := storage.NewManager("local")
	m.Register(d)

	assert.Equal(t, d, m.Default())
	assert.Equal(t, []string{"local"}, m.Names())
	_, err = m.Disk("s3")
	assert.Error(t, err)
}
