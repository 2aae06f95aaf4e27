// Package attendance ties recognition to the attendance log: the per-run
// recorder with its cooldown, the CSV ledger, roster loading, registration
// and the repair routine.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/rs/zerolog"
)

// DefaultCooldown suppresses repeated announcements of the same person.
const DefaultCooldown = 5 * time.Second

// Recorder writes the first recognition of each person per day. It belongs
// to a single attendance run and is not safe for concurrent use.
type Recorder struct {
	store    database.AttendanceWriter
	ledger   *Ledger
	cooldown time.Duration
	lastSeen map[int64]time.Time
	log      zerolog.Logger
}

// NewRecorder creates a recorder. ledger may be nil to skip the CSV mirror.
func NewRecorder(store database.AttendanceWriter, ledger *Ledger, cooldown time.Duration, log zerolog.Logger) *Recorder {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Recorder{
		store:    store,
		ledger:   ledger,
		cooldown: cooldown,
		lastSeen: make(map[int64]time.Time),
		log:      log,
	}
}

// OnRecognized records match at now unless it is Unknown, inside the
// cooldown window, or already recorded for that day. It reports whether a
// new record was written. A database error is returned and nothing else
// changes.
func (r *Recorder) OnRecognized(ctx context.Context, match facematch.Match, now time.Time) (bool, error) {
	if !match.Known() {
		return false, nil
	}

	if last, ok := r.lastSeen[match.UserID]; ok && now.Sub(last) < r.cooldown {
		return false, nil
	}

	date, clock := database.Stamp(now)
	seen, err := r.store.HasAttendanceToday(ctx, match.UserID, date)
	if err != nil {
		return false, fmt.Errorf("check attendance for %s: %w", match.Name, err)
	}
	if seen {
		// cooldown is refreshed even when the day is already recorded
		r.lastSeen[match.UserID] = now
		return false, nil
	}

	rec := database.AttendanceRecord{UserID: match.UserID, Name: match.Name, Date: date, Time: clock}
	if err := r.store.InsertAttendance(ctx, rec); err != nil {
		return false, fmt.Errorf("record attendance for %s: %w", match.Name, err)
	}
	if r.ledger != nil {
		if err := r.ledger.Append(rec); err != nil {
			r.log.Warn().Err(err).Str("path", r.ledger.Path()).Msg("ledger not updated, run export to rebuild it")
		}
	}
	r.lastSeen[match.UserID] = now

	r.log.Info().Str("name", match.Name).Str("date", date).Msgf("%s marked present at %s", match.Name, clock)
	return true, nil
}
