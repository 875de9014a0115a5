// Package snapshot persists a best-effort local copy of the event cache so
// the client can show the last known list before the first fetch completes.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Krepchik11/geohod/internal/domain"
)

// Repository stores the event cache snapshot in a local SQLite database.
type Repository struct {
	db *sql.DB
}

// NewRepository wraps an existing database handle. Used by tests; production
// code goes through Open.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open opens (or creates) the snapshot database at path and applies the
// schema.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snapshot database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			max_participants INTEGER NOT NULL DEFAULT 0,
			current_participants INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			author_id TEXT NOT NULL DEFAULT '',
			author_username TEXT NOT NULL DEFAULT '',
			author_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS registered_events (
			event_id TEXT PRIMARY KEY
		)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored snapshot with the given events and registered ids
// in one transaction. Event order is preserved via the position column.
func (r *Repository) Save(ctx context.Context, events []domain.Event, registeredIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registered_events`); err != nil {
		return fmt.Errorf("clear registered events: %w", err)
	}

	for i, ev := range events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (position, id, name, description, date, max_participants, current_participants, status, author_id, author_username, author_name)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, ev.ID, ev.Name, ev.Description, ev.Date.Format(time.RFC3339),
			ev.MaxParticipants, ev.CurrentParticipants, string(ev.Status),
			ev.Author.ID, ev.Author.Username, ev.Author.Name,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	for _, id := range registeredIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO registered_events (event_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("insert registered event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load returns the stored events in insertion order and the registered ids.
func (r *Repository) Load(ctx context.Context) ([]domain.Event, []string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, date, max_participants, current_participants, status, author_id, author_username, author_name
		 FROM events ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		var date, status string
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Description, &date,
			&ev.MaxParticipants, &ev.CurrentParticipants, &status,
			&ev.Author.ID, &ev.Author.Username, &ev.Author.Name); err != nil {
			return nil, nil, fmt.Errorf("scan event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			ev.Date = t
		}
		ev.Status = domain.EventStatus(status)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate events: %w", err)
	}

	idRows, err := r.db.QueryContext(ctx, `SELECT event_id FROM registered_events`)
	if err != nil {
		return nil, nil, fmt.Errorf("query registered events: %w", err)
	}
	defer idRows.Close()

	var ids []string
	for idRows.Next() {
		var id string
		if err := idRows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("scan registered event: %w", err)
		}
		ids = append(ids, id)
	}
	if err := idRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate registered events: %w", err)
	}
	return events, ids, nil
}
