package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Capture a face and register it under a name",
	Long: `Open the camera and register the person in front of it.

Press c to take the sample once exactly one face is visible, or q to cancel.
Registering an existing name replaces that person's stored face.

Example:
  face-attendance register "Jane Doe"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	name, err := attendance.ValidateName(strings.Join(args, " "))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	loop, log, release, err := startCapture(cfg)
	if err != nil {
		return err
	}
	defer release()

	id, err := attendance.Register(ctx, name, loop, store, facecodec.New(cfg.Face.EncodingDim), log)
	if errors.Is(err, capture.ErrAborted) {
		log.Info().Msg("registration cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	release()
	fmt.Printf("Registered %s (user %d)\n", name, id)
	return nil
}
