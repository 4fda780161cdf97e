package main

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTagsNormalize(t *testing.T) {
	out, err := run(t, "tags", "normalize", "Cola, cola", "1.5L")
	require.NoError(t, err)
	assert.Equal(t, "cola, 1.5l\n", out)
}

func TestBarcodesRender(t *testing.T) {
	root := t.TempDir()
	t.Setenv("STORAGE_DISK", "local")
	t.Setenv("STORAGE_LOCAL_ROOT", root)

	out, err := run(t, "barcodes", "render", "5701234567890", "123")
	require.NoError(t, err)
	assert.Contains(t, out, "/static/barcodes/barcode%205701234567890.png")
	assert.Contains(t, out, "123: too short, skipped")

	_, err = os.Stat(filepath.Join(root, "barcodes", "barcode 5701234567890.png"))
	assert.NoError(t, err)
}

func TestBarcodesDecode(t *testing.T) {
	code, err := ean.Encode("570123456789")
	require.NoError(t, err)
	scaled, err := barcode.Scale(code, 95*4, 160)
	require.NoError(t, err)

	canvas := image.NewRGBA(image.Rect(0, 0, 640, 320))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, scaled.Bounds().Add(image.Pt(130, 80)), scaled, image.Point{}, draw.Src)

	file := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, canvas))
	require.NoError(t, f.Close())

	out, err := run(t, "barcodes", "decode", file)
	require.NoError(t, err)
	assert.Equal(t, code.Content()+"\n", out)
}
