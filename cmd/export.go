package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rebuild the CSV ledger from the database",
	Long: `Write all attendance records from the database to the CSV ledger,
replacing its previous contents. The database is the source of truth; use
this after a run where the CSV could not be written.

Examples:
  face-attendance export
  face-attendance export --output march.csv --from 2026-03-01 --to 2026-03-31`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output CSV file (default from CSV_PATH)")
	exportCmd.Flags().String("from", "", "First date to export (YYYY-MM-DD)")
	exportCmd.Flags().String("to", "", "Last date to export (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg := loadConfig()

	output := mustGetString(cmd, "output")
	if output == "" {
		output = cfg.Ledger.CSVPath
	}
	from, to, err := parseDateRange(mustGetString(cmd, "from"), mustGetString(cmd, "to"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListAttendance(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}

	var progress func()
	if len(records) > 0 {
		bar := progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Exporting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("records"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
		progress = func() { bar.Add(1) }
	}

	if err := attendance.NewLedger(output).Rebuild(records, progress); err != nil {
		return err
	}

	fmt.Printf("\nExported %d records to %s in %s\n", len(records), output, formatDuration(time.Since(startTime)))
	return nil
}
