package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/faceapi"
	"github.com/kozaktomas/face-attendance/internal/operator"
	"github.com/rs/zerolog"
)

// startCapture puts the terminal into key mode, opens the camera and builds
// the capture loop. The returned logger writes correctly while the terminal
// is raw. release must be called on every exit path.
func startCapture(cfg *config.Config) (*capture.Loop, zerolog.Logger, func(), error) {
	term, err := operator.Open(os.Stdin)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to read keyboard: %w", err)
	}
	log := newLogger(cfg, term.Writer(os.Stderr))

	cam, err := camera.Open(&cfg.Camera, log)
	if err != nil {
		term.Restore()
		return nil, log, nil, err
	}

	release := func() {
		if err := cam.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to release camera")
		}
		if err := term.Restore(); err != nil {
			log.Warn().Err(err).Msg("failed to restore terminal")
		}
	}

	loop := capture.NewLoop(cam, term.Keys(), faceapi.NewClient(cfg.Face.ServiceURL), capture.NewPreview(cfg.Camera.PreviewPath), log)
	return loop, log, release, nil
}
