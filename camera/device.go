package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"lager_server/storage"
	"path"
	"time"

	"github.com/MonkyMars/gecho"
)

type DeviceOptions struct {
	PhotoDir     string
	WarmupFrames int
	ScanTimeout  time.Duration // 0 waits until the caller cancels
	JPEGQuality  int
}

// Device is the hardware-backed Camera. Only one caller holds the device at a time.
type Device struct {
	open    Opener
	disk    storage.Disk
	opts    DeviceOptions
	logger  *gecho.Logger
	decoder *decoder
	sem     chan struct{}
}

func NewDevice(open Opener, disk storage.Disk, opts DeviceOptions, logger *gecho.Logger) *Device {
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 90
	}
	return &Device{
		open:    open,
		disk:    disk,
		opts:    opts,
		logger:  logger,
		decoder: newDecoder(),
		sem:     make(chan struct{}, 1),
	}
}

func (d *Device) Enabled() bool { return true }

func (d *Device) acquire(ctx context.Context) bool {
	select {
	case d.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Device) release() { <-d.sem }

// ScanBarcode reads frames until one decodes, the frames run out or ctx ends.
func (d *Device) ScanBarcode(ctx context.Context) (string, bool, error) {
	if d.opts.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.ScanTimeout)
		defer cancel()
	}

	if !d.acquire(ctx) {
		return "", false, nil
	}
	defer d.release()

	src, err := d.open(ctx)
	if err != nil {
		return "", false, fmt.Errorf("camera: open: %w", err)
	}
	defer src.Close()

	frames := 0
	for {
		if ctx.Err() != nil {
			d.logger.Debug("Scan cancelled", gecho.Field("frames", frames))
			return "", false, nil
		}

		img, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				d.logger.Debug("Scan ended without a code", gecho.Field("frames", frames))
				return "", false, nil
			}
			return "", false, fmt.Errorf("camera: read frame: %w", err)
		}
		frames++

		if text, ok := d.decoder.decode(img); ok {
			d.logger.Info("Barcode scanned", gecho.Field("code", text), gecho.Field("frames", frames))
			return text, true, nil
		}
	}
}

// CapturePhoto stores the frame following the warm-up as {PhotoDir}/{basename}.jpg.
func (d *Device) CapturePhoto(ctx context.Context, basename string) (string, bool, error) {
	if !d.acquire(ctx) {
		return "", false, nil
	}
	defer d.release()

	src, err := d.open(ctx)
	if err != nil {
		return "", false, fmt.Errorf("camera: open: %w", err)
	}
	defer src.Close()

	for i := 0; ; i++ {
		img, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return "", false, nil
			}
			return "", false, fmt.Errorf("camera: read frame: %w", err)
		}
		if i < d.opts.WarmupFrames {
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.opts.JPEGQuality}); err != nil {
			return "", false, fmt.Errorf("camera: encode jpeg: %w", err)
		}

		rel := path.Join(d.opts.PhotoDir, basename+".jpg")
		if err := d.disk.Put(ctx, rel, buf.Bytes()); err != nil {
			return "", false, err
		}

		d.logger.Info("Photo captured", gecho.Field("path", rel))
		return rel, true, nil
	}
}
