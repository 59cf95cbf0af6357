package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/ramanasai/tally/internal/timeentry"
)

// Repository implements timeentry.Repository on a SQL table. Ids are
// assigned here, so callers see the same contract as the remote service.
type Repository struct {
	db  *DB
	log *slog.Logger
}

var _ timeentry.Repository = (*Repository)(nil)

func NewRepository(db *DB, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{db: db, log: log.With(slog.String("component", "db."+string(db.Driver)))}
}

const selectColumns = `
	SELECT id, client_id, activity_id, entry_date, start_time, end_time,
	       duration_minutes, description, billable, invoiced, entry_type
	FROM time_entries`

func (r *Repository) FetchByDate(ctx context.Context, date string) ([]timeentry.TimeEntry, error) {
	return r.query(ctx, selectColumns+` WHERE entry_date = ? ORDER BY start_time, id`, date)
}

func (r *Repository) FetchByRange(ctx context.Context, start, end string) ([]timeentry.TimeEntry, error) {
	return r.query(ctx, selectColumns+` WHERE entry_date BETWEEN ? AND ? ORDER BY entry_date, start_time, id`, start, end)
}

func (r *Repository) Create(ctx context.Context, d timeentry.Draft) (timeentry.TimeEntry, error) {
	e := d.WithID(uuid.NewString())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries
		  (id, client_id, activity_id, entry_date, start_time, end_time,
		   duration_minutes, description, billable, invoiced, entry_type)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.ClientID, e.ActivityID, e.Date, e.StartTime, e.EndTime,
		e.Duration, e.Description, e.Billable, e.Invoiced, string(e.EntryType),
	)
	if err != nil {
		return timeentry.TimeEntry{}, classify(fmt.Errorf("insert time entry: %w", err))
	}
	r.log.Debug("created", slog.String("id", e.ID), slog.String("date", e.Date))
	return e, nil
}

func (r *Repository) Update(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	e = e.Derive()
	_, err := r.db.ExecContext(ctx, `
		UPDATE time_entries
		SET client_id = ?, activity_id = ?, start_time = ?, end_time = ?,
		    duration_minutes = ?, description = ?, billable = ?, invoiced = ?, entry_type = ?
		WHERE id = ?`,
		e.ClientID, e.ActivityID, e.StartTime, e.EndTime,
		e.Duration, e.Description, e.Billable, e.Invoiced, string(e.EntryType), e.ID,
	)
	if err != nil {
		return timeentry.TimeEntry{}, classify(fmt.Errorf("update time entry: %w", err))
	}
	// RowsAffected is not usable here: MySQL reports 0 when nothing changed.
	// Reading the row back tells a no-op apart from a missing id.
	return r.get(ctx, e.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return classify(fmt.Errorf("delete time entry: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", timeentry.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) get(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	rows, err := r.query(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if len(rows) == 0 {
		return timeentry.TimeEntry{}, fmt.Errorf("%w: %s", timeentry.ErrNotFound, id)
	}
	return rows[0], nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]timeentry.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]timeentry.TimeEntry, 0)
	for rows.Next() {
		var e timeentry.TimeEntry
		var typ string
		if err := rows.Scan(&e.ID, &e.ClientID, &e.ActivityID, &e.Date, &e.StartTime, &e.EndTime,
			&e.Duration, &e.Description, &e.Billable, &e.Invoiced, &typ); err != nil {
			return nil, err
		}
		e.EntryType = timeentry.EntryType(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// classify tags connection-level failures so callers can tell them apart
// from bad data.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %v", timeentry.ErrNotFound, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, mysql.ErrInvalidConn), errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%w: %v", timeentry.ErrNetwork, err)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == 1044 || me.Number == 1045) {
		return fmt.Errorf("%w: %v", timeentry.ErrAuth, err)
	}
	return err
}
