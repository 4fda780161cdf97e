// Package camera acquires barcodes and product photos from a video device.
package camera

import (
	"context"
	"lager_server/storage"
	"lager_server/structs"

	"github.com/MonkyMars/gecho"
)

// Camera is the capture capability used by the product handlers. A false ok with
// a nil error means nothing was produced: the device is disabled, the caller went
// away or no frame carried a code.
type Camera interface {
	Enabled() bool
	ScanBarcode(ctx context.Context) (code string, ok bool, err error)
	CapturePhoto(ctx context.Context, basename string) (path string, ok bool, err error)
}

// New returns a Device when ENABLE_CAMERA=1 and Disabled otherwise.
func New(cfg *structs.CameraConfig, photoDir string, disk storage.Disk, logger *gecho.Logger) Camera {
	if !cfg.Enabled {
		logger.Info("Camera disabled")
		return Disabled{}
	}

	logger.Info("Camera enabled",
		gecho.Field("device", cfg.Device),
		gecho.Field("format", cfg.InputFormat),
	)
	return NewDevice(FFmpegOpener(cfg), disk, DeviceOptions{
		PhotoDir:     photoDir,
		WarmupFrames: cfg.WarmupFrames,
		ScanTimeout:  cfg.ScanTimeout,
	}, logger)
}

// Disabled is the camera of a headless deployment.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) ScanBarcode(context.Context) (string, bool, error) { return "", false, nil }

func (Disabled) CapturePhoto(context.Context, string) (string, bool, error) { return "", false, nil }
