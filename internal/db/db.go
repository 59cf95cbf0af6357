package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type Driver string

const (
	SQLite Driver = "sqlite"
	MySQL  Driver = "mysql"
)

// DB is a handle that remembers which dialect it speaks.
type DB struct {
	*sql.DB
	Driver Driver
}

func appDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "tally")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

// DefaultSQLitePath is where the local store lives when none is configured.
func DefaultSQLitePath() (string, error) {
	dir, err := appDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tally.db"), nil
}

// OpenSQLite opens (and migrates) a SQLite file. ":memory:" is accepted for
// tests.
func OpenSQLite(path string) (*DB, error) {
	if path == "" {
		p, err := DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path,
	)
	return Open(SQLite, dsn)
}

// Open connects with the given driver and applies the schema.
func Open(driver Driver, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s: DSN is required", driver)
	}
	sqldb, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, err
	}

	switch driver {
	case SQLite:
		// SQLite has a single writer; an in-memory db must also stay on one
		// connection or each one sees its own empty database.
		sqldb.SetMaxOpenConns(1)
	case MySQL:
		sqldb.SetMaxOpenConns(10)
		sqldb.SetMaxIdleConns(5)
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db := &DB{DB: sqldb, Driver: driver}
	if err := db.migrate(); err != nil {
		return nil, errors.Join(err, sqldb.Close())
	}
	if driver == SQLite {
		if err := EnsureInvoicedColumn(db); err != nil {
			return nil, errors.Join(err, sqldb.Close())
		}
	}
	return db, nil
}

func (db *DB) migrate() error {
	b, err := schemaFS.ReadFile("schema/" + string(db.Driver) + ".sql")
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(string(b), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return errors.Join(fmt.Errorf("schema apply failed"), err)
		}
	}
	return nil
}

// ------------------------------
// Invoiced flag (idempotent upgrader)
// ------------------------------

// EnsureInvoicedColumn adds time_entries.invoiced to SQLite stores created
// before invoicing was tracked.
func EnsureInvoicedColumn(db *DB) error {
	need := true

	rows, err := db.Query(`PRAGMA table_info(time_entries)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, "invoiced") {
			need = false
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !need {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`ALTER TABLE time_entries ADD COLUMN invoiced BOOLEAN NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("add invoiced: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_time_entries_invoiced ON time_entries(invoiced)`); err != nil {
		return err
	}
	return tx.Commit()
}
