package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"lager_server/lib"
	"lager_server/storage"
	"path"

	"github.com/MonkyMars/gecho"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
)

const (
	barcodeModuleWidth = 3   // px per module
	barcodeBarHeight   = 150 // px
	barcodeQuietZone   = 11  // modules on each side
)

// BarcodeService renders EAN-13 symbols once and finds them again.
type BarcodeService struct {
	logger *gecho.Logger
	disk   storage.Disk
	dir    string
}

func NewBarcodeService(logger *gecho.Logger, disk storage.Disk, dir string) *BarcodeService {
	return &BarcodeService{
		logger: logger,
		disk:   disk,
		dir:    dir,
	}
}

// ArtifactPath is the storage path of the barcode image for a cleaned code.
func (bs *BarcodeService) ArtifactPath(clean, ext string) string {
	return path.Join(bs.dir, "barcode "+clean+ext)
}

// EnsureDirectory creates the barcode directory.
func (bs *BarcodeService) EnsureDirectory(ctx context.Context) error {
	return bs.disk.MakeDirectory(ctx, bs.dir)
}

// Resolve returns the artifact path for code, rendering it on first use. Codes
// with fewer than 12 digits are not renderable and yield ok=false.
func (bs *BarcodeService) Resolve(ctx context.Context, code string) (string, bool, error) {
	clean := lib.CleanDigits(code)
	if !lib.IsRenderableEAN(clean) {
		BarcodesTotal.WithLabelValues("unrenderable").Inc()
		return "", false, nil
	}

	if err := bs.EnsureDirectory(ctx); err != nil {
		return "", false, err
	}

	rel := bs.ArtifactPath(clean, ".png")
	exists, err := bs.disk.Exists(ctx, rel)
	if err != nil {
		return "", false, err
	}
	if exists {
		bs.logger.Info("Barcode already exists, skipping", gecho.Field("path", rel))
		BarcodesTotal.WithLabelValues("existing").Inc()
		return rel, true, nil
	}

	// The renderer computes the check digit from the first 12 digits.
	data, err := RenderEAN13(clean[:lib.MinEANDigits])
	if err != nil {
		return "", false, err
	}
	if err := bs.disk.Put(ctx, rel, data); err != nil {
		return "", false, err
	}

	bs.logger.Info("Barcode rendered", gecho.Field("path", rel))
	BarcodesTotal.WithLabelValues("rendered").Inc()
	return rel, true, nil
}

// Lookup finds an existing artifact for ean, trying png then svg.
func (bs *BarcodeService) Lookup(ctx context.Context, ean string) (string, bool, error) {
	clean := lib.CleanDigits(ean)
	if clean == "" {
		return "", false, nil
	}

	for _, ext := range []string{".png", ".svg"} {
		rel := bs.ArtifactPath(clean, ext)
		exists, err := bs.disk.Exists(ctx, rel)
		if err != nil {
			return "", false, err
		}
		if exists {
			return rel, true, nil
		}
	}
	return "", false, nil
}

// URL is the public address of a stored artifact.
func (bs *BarcodeService) URL(rel string) string {
	return bs.disk.URL(rel)
}

// RenderEAN13 draws the symbol for a 12 digit payload as PNG on a white
// background with the standard quiet zone.
func RenderEAN13(digits12 string) ([]byte, error) {
	code, err := ean.Encode(digits12)
	if err != nil {
		return nil, fmt.Errorf("encode ean13 %q: %w", digits12, err)
	}

	bars := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, bars*barcodeModuleWidth, barcodeBarHeight)
	if err != nil {
		return nil, fmt.Errorf("scale ean13: %w", err)
	}

	quiet := barcodeQuietZone * barcodeModuleWidth
	canvas := image.NewGray(image.Rect(0, 0, scaled.Bounds().Dx()+2*quiet, barcodeBarHeight+2*quiet))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, scaled.Bounds().Add(image.Pt(quiet, quiet)), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
