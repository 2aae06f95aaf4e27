// Package capture runs the camera loop for registration and attendance.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/kozaktomas/face-attendance/internal/faceapi"
	"github.com/kozaktomas/face-attendance/internal/operator"
	"github.com/rs/zerolog"
)

var (
	// ErrCameraRead ends a loop when the camera stops delivering frames.
	ErrCameraRead = errors.New("camera read failed")
	// ErrAborted is returned when the operator quits a registration.
	ErrAborted = errors.New("capture aborted")
	// ErrDetect ends a loop when the face service fails.
	ErrDetect = errors.New("face detection failed")
)

// Camera is a stream of frames. Frames is closed when streaming stops and
// Err then reports the cause.
type Camera interface {
	Frames() <-chan image.Image
	Err() error
	Close() error
}

// Detector finds faces in a frame and computes their encodings.
type Detector interface {
	Detect(ctx context.Context, frame image.Image) ([]faceapi.Face, error)
}

// Label is the caption drawn under a face.
type Label struct {
	Text  string
	Known bool
}

// FaceHandler receives every face seen in attendance mode. An error ends the loop.
type FaceHandler func(ctx context.Context, face faceapi.Face) (Label, error)

// Loop owns one camera for the duration of a registration or attendance run.
type Loop struct {
	camera   Camera
	keys     <-chan operator.Key
	detector Detector
	preview  *Preview
	log      zerolog.Logger
}

// NewLoop creates a loop. keys may be nil when no operator input is available;
// preview may be nil.
func NewLoop(camera Camera, keys <-chan operator.Key, detector Detector, preview *Preview, log zerolog.Logger) *Loop {
	return &Loop{
		camera:   camera,
		keys:     keys,
		detector: detector,
		preview:  preview,
		log:      log,
	}
}

// Register waits for the capture key and returns the encoding of the single
// face in the next frame. Zero or several faces reject the capture and the
// loop keeps waiting.
func (l *Loop) Register(ctx context.Context) (facecodec.Encoding, error) {
	keys := l.keys
	pending := false

	l.log.Info().Msg("press c to capture, q to cancel")
	for {
		select {
		case <-ctx.Done():
			return nil, ErrAborted

		case k, ok := <-keys:
			if !ok {
				keys = nil
				if !pending {
					return nil, ErrAborted
				}
				continue
			}
			switch k {
			case operator.KeyQuit:
				return nil, ErrAborted
			case operator.KeyCapture:
				pending = true
			}

		case frame, ok := <-l.camera.Frames():
			if !ok {
				return nil, l.cameraErr()
			}
			if !pending {
				l.writePreview(frame, nil)
				continue
			}
			pending = false

			faces, err := l.detector.Detect(ctx, frame)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDetect, err)
			}
			l.writePreview(frame, overlays(faces, Label{}))

			if len(faces) != 1 {
				l.log.Warn().Int("faces", len(faces)).Msg("ensure only one face is visible, then press c again")
				if keys == nil {
					return nil, ErrAborted
				}
				continue
			}
			return faces[0].Encoding, nil
		}
	}
}

// Attend forwards every detected face to handle until the operator quits or
// ctx is cancelled, both of which end the run without error.
func (l *Loop) Attend(ctx context.Context, handle FaceHandler) error {
	keys := l.keys

	l.log.Info().Msg("attendance running, press q to stop")
	for {
		select {
		case <-ctx.Done():
			return nil

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if k == operator.KeyQuit {
				return nil
			}

		case frame, ok := <-l.camera.Frames():
			if !ok {
				return l.cameraErr()
			}

			faces, err := l.detector.Detect(ctx, frame)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%w: %w", ErrDetect, err)
			}

			out := make([]Overlay, 0, len(faces))
			for _, face := range faces {
				label, err := handle(ctx, face)
				if err != nil {
					return err
				}
				out = append(out, Overlay{Box: face.Box, Label: label})
			}
			l.writePreview(frame, out)
		}
	}
}

func (l *Loop) cameraErr() error {
	if err := l.camera.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCameraRead, err)
	}
	return ErrCameraRead
}

func (l *Loop) writePreview(frame image.Image, o []Overlay) {
	if l.preview == nil {
		return
	}
	if err := l.preview.Write(Annotate(frame, o)); err != nil {
		l.log.Warn().Err(err).Msg("preview not written")
	}
}

func overlays(faces []faceapi.Face, label Label) []Overlay {
	out := make([]Overlay, len(faces))
	for i, f := range faces {
		out[i] = Overlay{Box: f.Box, Label: label}
	}
	return out
}
