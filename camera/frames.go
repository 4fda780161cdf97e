package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"lager_server/structs"
	"os/exec"
	"strconv"
)

// FrameSource yields decoded frames until io.EOF.
type FrameSource interface {
	Next() (image.Image, error)
	Close() error
}

// Opener starts a frame source bound to ctx.
type Opener func(ctx context.Context) (FrameSource, error)

// FFmpegOpener reads raw rgb24 frames from the configured device through ffmpeg.
func FFmpegOpener(cfg *structs.CameraConfig) Opener {
	return func(ctx context.Context) (FrameSource, error) {
		size := strconv.Itoa(cfg.Width) + "x" + strconv.Itoa(cfg.Height)
		cmd := exec.CommandContext(ctx, cfg.FFmpegPath,
			"-hide_banner", "-loglevel", "error",
			"-f", cfg.InputFormat,
			"-video_size", size,
			"-i", cfg.Device,
			"-f", "rawvideo",
			"-pix_fmt", "rgb24",
			"-s", size,
			"-",
		)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("camera: stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("camera: start %s: %w", cfg.FFmpegPath, err)
		}

		return &ffmpegSource{
			cmd:    cmd,
			out:    stdout,
			width:  cfg.Width,
			height: cfg.Height,
			buf:    make([]byte, cfg.Width*cfg.Height*3),
		}, nil
	}
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	width  int
	height int
	buf    []byte
}

func (s *ffmpegSource) Next() (image.Image, error) {
	if _, err := io.ReadFull(s.out, s.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for i, j := 0, 0; i < len(s.buf); i, j = i+3, j+4 {
		img.Pix[j] = s.buf[i]
		img.Pix[j+1] = s.buf[i+1]
		img.Pix[j+2] = s.buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

func (s *ffmpegSource) Close() error {
	_ = s.out.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	// Killed processes always report an error here.
	_ = s.cmd.Wait()
	return nil
}
