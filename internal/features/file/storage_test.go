package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_WriteCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "blobs")
	storage := &DiskStorage{Root: root}

	first, err := storage.Write(context.Background(), []byte("one"))
	require.NoError(t, err)
	second, err := storage.Write(context.Background(), []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, root, filepath.Dir(first))

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))
}

func TestDiskStorage_WriteEmptyPayload(t *testing.T) {
	storage := &DiskStorage{Root: t.TempDir()}

	path, err := storage.Write(context.Background(), []byte{})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestDiskStorage_WriteCanceled(t *testing.T) {
	storage := &DiskStorage{Root: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Write(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiskStorage_Remove(t *testing.T) {
	storage := &DiskStorage{Root: t.TempDir()}
	path, err := storage.Write(context.Background(), []byte("x"))
	require.NoError(t, err)

	require.NoError(t, storage.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, storage.Remove(path))
}
