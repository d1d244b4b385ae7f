package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    data JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_owner ON events(owner);
`

// PostgresRepo stores each event as a JSONB document keyed by id.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func PostgresNewRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) InitSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Event, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM events WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return decodeEvent(data)
}

func (r *PostgresRepo) Insert(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO events (id, owner, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner, data = EXCLUDED.data`,
		event.ID, event.Owner, data,
	)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Values orders by byte value so the scan matches the other backends
// regardless of the database collation.
func (r *PostgresRepo) Values(ctx context.Context) ([]*Event, error) {
	rows, err := r.db.Query(ctx, `SELECT data FROM events ORDER BY id COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event, err := decodeEvent(data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
