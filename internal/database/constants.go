package database

// Stored date/time formats for the attendance table and CSV ledger.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Connection pool defaults used when the configuration leaves them unset.
const (
	DefaultMaxOpenConns = 5
	DefaultMaxIdleConns = 2
)
