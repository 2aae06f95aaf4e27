// Package camera streams frames from a V4L2 video device.
package camera

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/blackjack/webcam"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/rs/zerolog"
)

// ErrNoFrame is reported when the device delivers no frame within the frame timeout.
var ErrNoFrame = errors.New("no frame within timeout")

// Webcam is an open V4L2 device streaming decoded frames. Frames are
// produced on a separate goroutine; when the consumer is busy new frames are
// dropped rather than queued.
type Webcam struct {
	cam     *webcam.Webcam
	format  uint32
	width   int
	height  int
	timeout uint32
	log     zerolog.Logger

	frames    chan image.Image
	stop      chan struct{}
	done      chan struct{}
	err       error
	closeOnce sync.Once
}

// Open opens the configured device, negotiates MJPEG or YUYV and starts streaming.
func Open(cfg *config.CameraConfig, log zerolog.Logger) (*Webcam, error) {
	cam, err := webcam.Open(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", cfg.Device, err)
	}

	format, err := pickFormat(cam.GetSupportedFormats())
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("camera %s: %w", cfg.Device, err)
	}

	f, w, h, err := cam.SetImageFormat(webcam.PixelFormat(format), uint32(cfg.Width), uint32(cfg.Height))
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("set image format: %w", err)
	}
	if uint32(f) != format {
		cam.Close()
		return nil, fmt.Errorf("camera switched pixel format to %s", fourcc(uint32(f)))
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("start streaming: %w", err)
	}

	wc := &Webcam{
		cam:     cam,
		format:  format,
		width:   int(w),
		height:  int(h),
		timeout: timeoutSeconds(cfg.FrameTimeout),
		log:     log,
		frames:  make(chan image.Image, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	log.Debug().
		Str("device", cfg.Device).
		Str("format", fourcc(format)).
		Int("width", wc.width).
		Int("height", wc.height).
		Msg("camera streaming")

	go wc.run()
	return wc, nil
}

// Frames returns the frame channel. It is closed when streaming stops; Err
// then reports why.
func (w *Webcam) Frames() <-chan image.Image {
	return w.frames
}

// Err returns the error that stopped streaming, or nil after Close.
// Only valid once Frames is closed.
func (w *Webcam) Err() error {
	return w.err
}

// Close stops streaming and releases the device. Safe to call more than once.
func (w *Webcam) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done
		err = w.cam.Close()
	})
	return err
}

func (w *Webcam) run() {
	defer close(w.done)
	defer close(w.frames)

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		err := w.cam.WaitForFrame(w.timeout)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			w.err = ErrNoFrame
			return
		default:
			w.err = fmt.Errorf("wait for frame: %w", err)
			return
		}

		raw, err := w.cam.ReadFrame()
		if err != nil {
			w.err = fmt.Errorf("read frame: %w", err)
			return
		}
		if len(raw) == 0 || len(w.frames) > 0 {
			continue
		}

		img, err := decodeFrame(w.format, raw, w.width, w.height)
		if err != nil {
			// MJPEG devices occasionally emit a truncated frame
			w.log.Debug().Err(err).Msg("dropping frame")
			continue
		}

		select {
		case w.frames <- img:
		case <-w.stop:
			return
		}
	}
}

// pickFormat prefers MJPEG, which most USB cameras offer at higher resolutions.
func pickFormat(supported map[webcam.PixelFormat]string) (uint32, error) {
	for _, f := range []uint32{formatMJPEG, formatYUYV} {
		if _, ok := supported[webcam.PixelFormat(f)]; ok {
			return f, nil
		}
	}
	names := make([]string, 0, len(supported))
	for _, desc := range supported {
		names = append(names, desc)
	}
	return 0, fmt.Errorf("no supported pixel format (MJPEG or YUYV) among %v", names)
}

func timeoutSeconds(d time.Duration) uint32 {
	if d <= 0 {
		return 5
	}
	return uint32(math.Ceil(d.Seconds()))
}
