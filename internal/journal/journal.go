// Package journal keeps a local SQLite record of push events received from
// the server, backing the `linkview events` listing.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type  TEXT NOT NULL,
	payload     TEXT NOT NULL,
	received_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_received_at ON events(received_at);
`

// Journal persists received events to SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one received event and returns its ID.
func (j *Journal) Append(eventType string, payload []byte) (int64, error) {
	result, err := j.db.Exec(`
		INSERT INTO events (event_type, payload, received_at)
		VALUES (?, ?, ?)`,
		eventType, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return result.LastInsertId()
}

// Entry is one persisted event.
type Entry struct {
	ID         int64
	EventType  string
	Payload    string
	ReceivedAt time.Time
}

// Recent returns the newest events first, plus the total count.
func (j *Journal) Recent(limit, offset int) ([]Entry, int, error) {
	var total int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := j.db.Query(`
		SELECT id, event_type, payload, received_at
		FROM events
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.ReceivedAt); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// Prune removes events older than the given age and returns how many went.
func (j *Journal) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := j.db.Exec(`DELETE FROM events WHERE received_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}
