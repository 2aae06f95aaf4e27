package database

import (
	"context"
)

// UserReader provides read-only access to registered users
type UserReader interface {
	// LoadAllUsers returns every user ordered by id, including rows whose
	// encoding is NULL or corrupt
	LoadAllUsers(ctx context.Context) ([]User, error)
	// CountUsers returns the number of registered users
	CountUsers(ctx context.Context) (int, error)
}

// UserWriter provides write access to registered users
type UserWriter interface {
	UserReader

	// UpsertUserEncoding overwrites the encoding of the user with this name,
	// or inserts a new user. Returns the user id.
	UpsertUserEncoding(ctx context.Context, name, encoding string) (int64, error)

	// DeleteUser removes a user by id. Returns ErrNotFound when no row matched.
	DeleteUser(ctx context.Context, id int64) error
}

// AttendanceReader provides read-only access to attendance records
type AttendanceReader interface {
	// HasAttendanceToday reports whether the user already has a record on date (DateLayout)
	HasAttendanceToday(ctx context.Context, userID int64, date string) (bool, error)
	// ListAttendance returns records with from <= date <= to (DateLayout, empty = unbounded),
	// ordered by date, time and id. Names are resolved from users at read time.
	ListAttendance(ctx context.Context, from, to string) ([]AttendanceRecord, error)
}

// AttendanceWriter provides write access to attendance records
type AttendanceWriter interface {
	AttendanceReader

	// InsertAttendance appends a record and commits immediately
	InsertAttendance(ctx context.Context, rec AttendanceRecord) error
}

// Store is a complete persistence backend
type Store interface {
	UserWriter
	AttendanceWriter

	// Migrate applies pending schema migrations and returns the applied file names
	Migrate(ctx context.Context) ([]string, error)
	// Close releases the connection pool
	Close() error
}
