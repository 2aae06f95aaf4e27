package attendance

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-attendance/internal/database"
)

var ledgerHeader = []string{"Name", "Date", "Time"}

// Ledger is the CSV mirror of the attendance table. The database is the
// source of truth; Rebuild regenerates the file from it.
type Ledger struct {
	path string
}

// NewLedger returns a ledger writing to path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the CSV file location.
func (l *Ledger) Path() string {
	return l.path
}

// Append adds one row, creating the file with its header when it is absent or empty.
func (l *Ledger) Append(rec database.AttendanceRecord) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(ledgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	if err := w.Write([]string{rec.Name, rec.Date, rec.Time}); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return f.Close()
}

// Rebuild replaces the ledger with the given records. progress, when set, is
// called once per written row.
func (l *Ledger) Rebuild(records []database.AttendanceRecord, progress func()) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(ledgerHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.Name, rec.Date, rec.Time}); err != nil {
			tmp.Close()
			return fmt.Errorf("write ledger row: %w", err)
		}
		if progress != nil {
			progress()
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
