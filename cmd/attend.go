package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/spf13/cobra"
)

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Run the camera and mark recognised people present",
	Long: `Watch the camera and record the first recognition of each registered
person per day in the database and the CSV ledger.

Stop with q or Ctrl+C. Set PREVIEW_PATH to get the annotated frame written
to a JPEG file.

Examples:
  face-attendance attend
  face-attendance attend --tolerance 0.6 --csv /srv/attendance.csv`,
	Args: cobra.NoArgs,
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)

	attendCmd.Flags().Float64("tolerance", 0, "Maximum match distance (default from MATCH_TOLERANCE)")
	attendCmd.Flags().String("csv", "", "CSV ledger path (default from CSV_PATH)")
}

func runAttend(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if tol := mustGetFloat64(cmd, "tolerance"); tol > 0 {
		cfg.Face.MatchTolerance = tol
	}
	if path := mustGetString(cmd, "csv"); path != "" {
		cfg.Ledger.CSVPath = path
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg, os.Stderr)
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	// Roster problems are reported before the camera is touched
	roster, err := attendance.LoadRoster(ctx, store, facecodec.New(cfg.Face.EncodingDim), log)
	if errors.Is(err, facematch.ErrEmptyRoster) {
		return fmt.Errorf("%w: register someone first or run repair", err)
	}
	if err != nil {
		return err
	}

	loop, log, release, err := startCapture(cfg)
	if err != nil {
		return err
	}
	defer release()

	matcher := facematch.NewMatcher(cfg.Face.MatchTolerance)
	session := attendance.NewSession(store, attendance.NewLedger(cfg.Ledger.CSVPath), roster, matcher, cfg.Face.Cooldown, log)
	log.Info().
		Str("session", session.ID).
		Int("roster", len(roster)).
		Float64("tolerance", matcher.Tolerance()).
		Msg("attendance started")

	if err := loop.Attend(ctx, session.HandleFace); err != nil {
		return err
	}
	log.Info().Str("session", session.ID).Msg("attendance stopped")
	return nil
}
