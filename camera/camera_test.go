package camera

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"lager_server/storage"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	frames []image.Image
	pos    int
	closed bool
}

func (s *fakeSource) Next() (image.Image, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	img := s.frames[s.pos]
	s.pos++
	return img, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func openFrames(frames ...image.Image) (Opener, *fakeSource) {
	src := &fakeSource{frames: frames}
	return func(context.Context) (FrameSource, error) { return src, nil }, src
}

func blankFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// eanFrame draws an EAN-13 symbol with a generous quiet zone on a white frame.
func eanFrame(t *testing.T, digits string) (image.Image, string) {
	t.Helper()

	code, err := ean.Encode(digits)
	require.NoError(t, err)
	scaled, err := barcode.Scale(code, 95*4, 160)
	require.NoError(t, err)

	frame := blankFrame().(*image.RGBA)
	offset := image.Pt((640-scaled.Bounds().Dx())/2, (480-scaled.Bounds().Dy())/2)
	draw.Draw(frame, scaled.Bounds().Add(offset), scaled, scaled.Bounds().Min, draw.Src)
	return frame, code.Content()
}

func newTestDevice(t *testing.T, open Opener, opts DeviceOptions) (*Device, storage.Disk) {
	t.Helper()
	disk, err := storage.NewLocalDisk(t.TempDir(), "/static")
	require.NoError(t, err)
	return NewDevice(open, disk, opts, gecho.NewDefaultLogger()), disk
}

func TestDisabled(t *testing.T) {
	var cam Camera = Disabled{}
	assert.False(t, cam.Enabled())

	code, ok, err := cam.ScanBarcode(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, code)

	path, ok, err := cam.CapturePhoto(context.Background(), "product_1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestScanBarcodeFindsCode(t *testing.T) {
	frame, want := eanFrame(t, "570123456789")
	open, src := openFrames(blankFrame(), blankFrame(), frame, blankFrame())
	dev, _ := newTestDevice(t, open, DeviceOptions{})

	code, ok, err := dev.ScanBarcode(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, code)
	assert.Equal(t, 3, src.pos)
	assert.True(t, src.closed)
}

func TestScanBarcodeRunsOutOfFrames(t *testing.T) {
	open, _ := openFrames(blankFrame(), blankFrame())
	dev, _ := newTestDevice(t, open, DeviceOptions{})

	code, ok, err := dev.ScanBarcode(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestScanBarcodeCancelled(t *testing.T) {
	frame, _ := eanFrame(t, "570123456789")
	open, src := openFrames(frame)
	dev, _ := newTestDevice(t, open, DeviceOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := dev.ScanBarcode(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, src.pos)
}

func TestScanBarcodeOpenError(t *testing.T) {
	boom := errors.New("no such device")
	dev, _ := newTestDevice(t, func(context.Context) (FrameSource, error) { return nil, boom }, DeviceOptions{})

	_, ok, err := dev.ScanBarcode(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestCapturePhotoAfterWarmup(t *testing.T) {
	open, src := openFrames(blankFrame(), blankFrame(), blankFrame(), blankFrame())
	dev, disk := newTestDevice(t, open, DeviceOptions{PhotoDir: "product_img", WarmupFrames: 2})

	path, ok, err := dev.CapturePhoto(context.Background(), "product_5701234567890")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "product_img/product_5701234567890.jpg", path)
	assert.Equal(t, 3, src.pos)

	data, err := disk.Get(context.Background(), path)
	require.NoError(t, err)
	// JPEG SOI marker
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])
}

func TestCapturePhotoWithoutFrames(t *testing.T) {
	open, _ := openFrames(blankFrame())
	dev, _ := newTestDevice(t, open, DeviceOptions{PhotoDir: "product_img", WarmupFrames: 5})

	path, ok, err := dev.CapturePhoto(context.Background(), "product_id_7")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

// blockingSource hands out blank frames until its context ends.
type blockingSource struct {
	ctx context.Context
}

func (s *blockingSource) Next() (image.Image, error) {
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case <-time.After(time.Millisecond):
		return blankFrame(), nil
	}
}

func (s *blockingSource) Close() error { return nil }

func TestDeviceIsExclusive(t *testing.T) {
	var active, peak int32
	open := func(ctx context.Context) (FrameSource, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		return &countingSource{FrameSource: &blockingSource{ctx: ctx}, active: &active}, nil
	}
	dev, _ := newTestDevice(t, open, DeviceOptions{ScanTimeout: 20 * time.Millisecond})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = dev.ScanBarcode(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

type countingSource struct {
	FrameSource
	active *int32
}

func (s *countingSource) Close() error {
	atomic.AddInt32(s.active, -1)
	return s.FrameSource.Close()
}

func TestDecode(t *testing.T) {
	frame, want := eanFrame(t, "400638133393")
	got, ok := Decode(frame)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = Decode(blankFrame())
	assert.False(t, ok)
}
