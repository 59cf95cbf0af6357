package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ramanasai/tally/internal/timeentry"
)

// Outbox persists local placeholders between runs so a later sync can
// create them. Rows are keyed by the placeholder's local id.
type Outbox struct {
	db *DB
}

func NewOutbox(db *DB) *Outbox { return &Outbox{db: db} }

// Put stores or replaces a placeholder. Non-local entries are refused.
func (o *Outbox) Put(ctx context.Context, e timeentry.TimeEntry) error {
	if !e.Local() {
		return fmt.Errorf("outbox: %q is not a local entry", e.ID)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	q := `INSERT INTO outbox (id, entry_date, payload) VALUES (?,?,?)
		ON CONFLICT(id) DO UPDATE SET entry_date = excluded.entry_date, payload = excluded.payload`
	if o.db.Driver == MySQL {
		q = `INSERT INTO outbox (id, entry_date, payload) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE entry_date = VALUES(entry_date), payload = VALUES(payload)`
	}
	if _, err := o.db.ExecContext(ctx, q, e.ID, e.Date, string(payload)); err != nil {
		return fmt.Errorf("outbox put: %w", err)
	}
	return nil
}

// List returns every queued placeholder ordered by date, then by queue time.
func (o *Outbox) List(ctx context.Context) ([]timeentry.TimeEntry, error) {
	rows, err := o.db.QueryContext(ctx, `SELECT payload FROM outbox ORDER BY entry_date, queued_at, id`)
	if err != nil {
		return nil, fmt.Errorf("outbox list: %w", err)
	}
	defer rows.Close()

	var out []timeentry.TimeEntry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var e timeentry.TimeEntry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("outbox decode: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Drop removes a placeholder; dropping an unknown id is not an error.
func (o *Outbox) Drop(ctx context.Context, id string) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id); err != nil {
		return fmt.Errorf("outbox drop: %w", err)
	}
	return nil
}
