package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Keep in sync with the Postgres schema in events_postgres.go.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_owner ON events(owner);
`

// SQLiteRepo stores each event as a JSON document keyed by id.
type SQLiteRepo struct {
	db *sql.DB
}

func SQLiteNewRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

// InitSchema applies the events schema. It is idempotent.
func (r *SQLiteRepo) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*Event, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM events WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return decodeEvent([]byte(data))
}

func (r *SQLiteRepo) Insert(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (id, owner, data) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, data = excluded.data`,
		event.ID, event.Owner, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Values(ctx context.Context) ([]*Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event, err := decodeEvent([]byte(data))
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func decodeEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	event.normalize()
	return &event, nil
}
