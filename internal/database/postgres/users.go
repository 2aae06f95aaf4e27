package postgres

import (
	"context"
	"database/sql"
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
	var id int64
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (name, face_encoding) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET face_encoding = EXCLUDED.face_encoding
		RETURNING id
	`, name, encoding).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

// DeleteUser removes a user by id.
func (p *Pool) DeleteUser(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
