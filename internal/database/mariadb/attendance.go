package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// HasAttendanceToday reports whether the user already has a record on date.
func (p *Pool) HasAttendanceToday(ctx context.Context, userID int64, date string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance WHERE user_id = ? AND date = ?)`, userID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// InsertAttendance appends a record.
func (p *Pool) InsertAttendance(ctx context.Context, rec database.AttendanceRecord) error {
	var userID sql.NullInt64
	if rec.UserID > 0 {
		userID = sql.NullInt64{Int64: rec.UserID, Valid: true}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO attendance (user_id, name, date, time) VALUES (?, ?, ?, ?)`,
		userID, rec.Name, rec.Date, rec.Time,
	)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// ListAttendance returns records between from and to inclusive.
func (p *Pool) ListAttendance(ctx context.Context, from, to string) ([]database.AttendanceRecord, error) {
	var where []string
	var args []any
	if from != "" {
		where = append(where, "a.date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "a.date <= ?")
		args = append(args, to)
	}

	query := `
		SELECT a.id, COALESCE(a.user_id, 0), COALESCE(u.name, a.name),
		       DATE_FORMAT(a.date, '%Y-%m-%d'), TIME_FORMAT(a.time, '%H:%i:%s')
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY a.date, a.time, a.id"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var records []database.AttendanceRecord
	for rows.Next() {
		var r database.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Date, &r.Time); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}
