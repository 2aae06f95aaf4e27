package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show attendance records",
	Long: `Show attendance records for one day (today by default) or a date range.

For a single day the registered users without a record are listed as absent.

Examples:
  face-attendance report
  face-attendance report --date 2026-03-09
  face-attendance report --from 2026-03-01 --to 2026-03-31 --json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("date", "", "Day to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().String("from", "", "First date of a range (YYYY-MM-DD)")
	reportCmd.Flags().String("to", "", "Last date of a range (YYYY-MM-DD)")
	reportCmd.Flags().Bool("json", false, "Output as JSON")
}

// ReportRecord is one attendance row of the report output
type ReportRecord struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// Report is the JSON output of the report command
type Report struct {
	From    string         `json:"from,omitempty"`
	To      string         `json:"to,omitempty"`
	Present []ReportRecord `json:"present"`
	Absent  []string       `json:"absent,omitempty"`
}

// buildReport lists records and, for a single day, the users with no record.
func buildReport(from, to string, records []database.AttendanceRecord, users []database.User) Report {
	r := Report{From: from, To: to, Present: make([]ReportRecord, 0, len(records))}
	seen := make(map[int64]bool, len(records))
	for _, rec := range records {
		r.Present = append(r.Present, ReportRecord{Name: rec.Name, Date: rec.Date, Time: rec.Time})
		if rec.UserID > 0 {
			seen[rec.UserID] = true
		}
	}
	if from == "" || from != to {
		return r
	}
	for _, u := range users {
		if !seen[u.ID] {
			r.Absent = append(r.Absent, u.Name)
		}
	}
	return r
}

func runReport(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	date := mustGetString(cmd, "date")
	from, to, err := parseDateRange(mustGetString(cmd, "from"), mustGetString(cmd, "to"))
	if err != nil {
		return err
	}
	if from == "" && to == "" {
		if date == "" {
			date = time.Now().Format(database.DateLayout)
		}
		if from, to, err = parseDateRange(date, date); err != nil {
			return err
		}
	} else if date != "" {
		return fmt.Errorf("--date cannot be combined with --from/--to")
	}

	cfg := loadConfig()
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
	var users []database.User
	if from == to {
		if users, err = store.LoadAllUsers(ctx); err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
	}
	report := buildReport(from, to, records, users)

	if jsonOutput {
		return outputJSON(report)
	}

	if len(report.Present) == 0 {
		fmt.Println("No attendance recorded.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTIME\tNAME")
		for _, r := range report.Present {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Date, r.Time, r.Name)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if len(report.Absent) > 0 {
		fmt.Printf("\nAbsent (%d):\n", len(report.Absent))
		for _, name := range report.Absent {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}
