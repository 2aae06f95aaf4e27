package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// User is a registered person. RawEncoding is the stored text as-is; it may be
// nil (NULL column) or undecodable, which the repair routine cleans up.
type User struct {
	ID          int64
	Name        string
	RawEncoding *string
}

// AttendanceRecord is one first-recognition-of-the-day event. UserID is 0
// when the user row was deleted after the record was written; Name is then
// the snapshot taken at insert time.
type AttendanceRecord struct {
	ID     int64
	UserID int64
	Name   string
	Date   string // DateLayout
	Time   string // TimeLayout
}

// Stamp splits a wall-clock instant into the stored date and time strings.
func Stamp(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}
