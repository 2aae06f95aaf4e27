package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// LoadAllUsers returns every user ordered by id.
func (p *Pool) LoadAllUsers(ctx context.Context) ([]database.User, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, face_encoding FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []database.User
	for rows.Next() {
		var u database.User
		var enc sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &enc); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if enc.Valid {
			u.RawEncoding = &enc.String
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (p *Pool) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// UpsertUserEncoding updates the encoding of an existing user or inserts a new one.
func (p *Pool) UpsertUserEncoding(ctx context.Context, name, encoding string) (int64, error) {
	// Look the user up first (MySQL RowsAffected returns 0 when data is unchanged)
	var id int64
	err := p.db.QueryRowContext(ctx, `SELECT id FROM users WHERE name = ?`, name).Scan(&id)
	switch {
	case err == nil:
		if _, err := p.db.ExecContext(ctx, `UPDATE users SET face_encoding = ? WHERE id = ?`, encoding, id); err != nil {
			return 0, fmt.Errorf("update user encoding: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		res, err := p.db.ExecContext(ctx, `INSERT INTO users (name, face_encoding) VALUES (?, ?)`, name, encoding)
		if err != nil {
			return 0, fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("read user id: %w", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("lookup user: %w", err)
	}
}

// DeleteUser removes a user by id.
func (p *Pool) DeleteUser(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, database.ErrNotFound)
	}
	return nil
}
