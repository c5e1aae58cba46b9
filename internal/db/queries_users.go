package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chris/journal/internal/journal"
)

// GetUser loads one user record. Unknown ids return journal.ErrUserNotFound.
func (d *DB) GetUser(ctx context.Context, id string) (*journal.User, error) {
	var record string
	err := d.conn.QueryRowContext(ctx, "SELECT record FROM users WHERE id = ?", id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, journal.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return decodeUser(id, record)
}

// PutUser writes the whole user record in one statement.
func (d *DB) PutUser(ctx context.Context, u *journal.User) error {
	if u.ID == "" {
		return errors.New("putting user: empty id")
	}
	record, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user %s: %w", u.ID, err)
	}
	_, err = d.conn.ExecContext(ctx,
		`INSERT INTO users (id, record) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET record = excluded.record, updated_at = datetime('now')`,
		u.ID, string(record),
	)
	if err != nil {
		return fmt.Errorf("putting user %s: %w", u.ID, err)
	}
	return nil
}

// ListUsers returns every user keyed by id.
func (d *DB) ListUsers(ctx context.Context) (map[string]*journal.User, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT id, record FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*journal.User)
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u, err := decodeUser(id, record)
		if err != nil {
			return nil, err
		}
		out[id] = u
	}
	return out, rows.Err()
}

// CountUsers is used by the health endpoint.
func (d *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func decodeUser(id, record string) (*journal.User, error) {
	// Records written before schedules existed keep the default slot.
	u := journal.User{Schedule: journal.DefaultSchedule()}
	if err := json.Unmarshal([]byte(record), &u); err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", id, err)
	}
	u.ID = id
	if u.Responses == nil {
		u.Responses = []journal.Entry{}
	}
	return &u, nil
}
