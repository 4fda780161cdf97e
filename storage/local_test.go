package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := NewLocalDisk(root, "/static/")
	require.NoError(t, err)

	ok, err := disk.Exists(ctx, "barcodes/barcode 1.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, disk.Put(ctx, "barcodes/barcode 1.png", []byte("png")))

	ok, err = disk.Exists(ctx, "barcodes/barcode 1.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := disk.Get(ctx, "barcodes/barcode 1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	files, err := disk.Files(ctx, "barcodes")
	require.NoError(t, err)
	assert.Equal(t, []string{"barcodes/barcode 1.png"}, files)

	assert.Equal(t, "/static/barcodes/barcode%201.png", disk.URL("barcodes/barcode 1.png"))

	require.NoError(t, disk.Delete(ctx, "barcodes/barcode 1.png"))
	require.NoError(t, disk.Delete(ctx, "barcodes/barcode 1.png"))
	_, err = os.Stat(filepath.Join(root, "barcodes", "barcode 1.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	disk, err := NewLocalDisk(root, "/static")
	require.NoError(t, err)

	require.NoError(t, disk.Put(context.Background(), "../escape.txt", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalDiskMissingDirectory(t *testing.T) {
	disk, err := NewLocalDisk(t.TempDir(), "/static")
	require.NoError(t, err)

	files, err := disk.Files(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Empty(t, files)
}
