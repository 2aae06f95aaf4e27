package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Remove users whose stored face encoding is corrupt",
	Long: `Check every registered user's stored face encoding and delete users whose
encoding is missing or cannot be decoded. Their attendance history is kept.

Examples:
  face-attendance repair
  face-attendance repair --json`,
	Args: cobra.NoArgs,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)

	repairCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

// RepairResult is the JSON output of the repair command
type RepairResult struct {
	Success    bool     `json:"success"`
	Checked    int      `json:"checked"`
	Removed    []string `json:"removed"`
	Failed     []string `json:"failed,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

func runRepair(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	startTime := time.Now()

	cfg := loadConfig()
	log := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	// Create progress bar (only for non-JSON output)
	var bar *progressbar.ProgressBar
	var progress func()
	if !jsonOutput && count > 0 {
		bar = progressbar.NewOptions(count,
			progressbar.OptionSetDescription("Checking encodings"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("users"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
		progress = func() { bar.Add(1) }
	}

	summary, err := attendance.Repair(ctx, store, facecodec.New(cfg.Face.EncodingDim), log, progress)
	if bar != nil {
		fmt.Println()
	}
	if err != nil {
		return fmt.Errorf("repair failed after %d users: %w", summary.Checked, err)
	}

	if jsonOutput {
		removed := summary.Removed
		if removed == nil {
			removed = []string{}
		}
		return outputJSON(RepairResult{
			Success:    len(summary.Failed) == 0,
			Checked:    summary.Checked,
			Removed:    removed,
			Failed:     summary.Failed,
			DurationMs: time.Since(startTime).Milliseconds(),
		})
	}

	fmt.Println("\nRepair complete!")
	fmt.Printf("  Users checked: %d\n", summary.Checked)
	fmt.Printf("  Users removed: %d\n", len(summary.Removed))
	for _, name := range summary.Removed {
		fmt.Printf("    - %s\n", name)
	}
	if len(summary.Failed) > 0 {
		fmt.Printf("  Failed:        %d\n", len(summary.Failed))
	}
	fmt.Printf("  Duration:      %s\n", formatDuration(time.Since(startTime)))
	return nil
}
