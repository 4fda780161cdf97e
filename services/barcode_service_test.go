package services

import (
	"bytes"
	"context"
	"image/png"
	"lager_server/storage"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBarcodeService(t *testing.T) (*BarcodeService, string) {
	t.Helper()
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(root, "/static")
	require.NoError(t, err)
	return NewBarcodeService(gecho.NewDefaultLogger(), disk, "barcodes"), root
}

func TestResolveTooShort(t *testing.T) {
	bs, root := newTestBarcodeService(t)

	rel, ok, err := bs.Resolve(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rel)

	_, err = os.Stat(filepath.Join(root, "barcodes"))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveIsIdempotent(t *testing.T) {
	bs, root := newTestBarcodeService(t)
	ctx := context.Background()

	rel, ok, err := bs.Resolve(ctx, "570123456789")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "barcodes/barcode 570123456789.png", rel)

	full := filepath.Join(root, "barcodes", "barcode 570123456789.png")
	first, err := os.Stat(full)
	require.NoError(t, err)
	assert.Positive(t, first.Size())

	// Backdate the file so a rewrite would be visible.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(full, old, old))

	again, ok, err := bs.Resolve(ctx, "570123456789")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rel, again)

	second, err := os.Stat(full)
	require.NoError(t, err)
	assert.WithinDuration(t, old, second.ModTime(), time.Second)
}

func TestResolveStripsNonDigits(t *testing.T) {
	bs, _ := newTestBarcodeService(t)

	rel, ok, err := bs.Resolve(context.Background(), " 570-123456789-0 ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "barcodes/barcode 5701234567890.png", rel)
}

func TestRenderEAN13(t *testing.T) {
	data, err := RenderEAN13("570123456789")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 95*barcodeModuleWidth+2*barcodeQuietZone*barcodeModuleWidth, img.Bounds().Dx())

	_, err = RenderEAN13("abc")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	bs, root := newTestBarcodeService(t)
	ctx := context.Background()

	_, ok, err := bs.Lookup(ctx, "5701234567890")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "barcodes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "barcodes", "barcode 5701234567890.svg"), []byte("<svg/>"), 0o644))

	rel, ok, err := bs.Lookup(ctx, "5701234567890")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "barcodes/barcode 5701234567890.svg", rel)

	_, ok, err = bs.Resolve(ctx, "5701234567890")
	require.NoError(t, err)
	require.True(t, ok)
	rel, _, err = bs.Lookup(ctx, "5701234567890")
	require.NoError(t, err)
	assert.Equal(t, "barcodes/barcode 5701234567890.png", rel)
	assert.Equal(t, "/static/barcodes/barcode%205701234567890.png", bs.URL(rel))
}
