package client

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"fleetlog/internal/app/client/migrations"
	"fleetlog/internal/domain/usage"
)

// SnapshotCache is the client's local SQLite store. It keeps the last
// confirmed canonical row set per tail, so the worksheet still renders when
// the backend is unreachable, and the durable pending-edit queue that backs
// the overlay between CLI invocations.
type SnapshotCache struct {
	db *sql.DB
}

func NewSnapshotCache(path string) (*SnapshotCache, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening client database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating client database: %w", err)
	}

	return &SnapshotCache{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// SaveSnapshot replaces the stored canonical set for the serial.
func (c *SnapshotCache) SaveSnapshot(serial string, rows []usage.Row, fetchedAt time.Time) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot_rows WHERE serial = ?", serial); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	for _, row := range rows {
		_, err := tx.Exec(`
			INSERT INTO snapshot_rows (serial, id, date, techlog_no, block_hours, cycles,
			                           note, total_hours, total_cycles,
			                           hours_to_next_check, days_to_next_check, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, serial, row.ID, row.Date, row.TechlogNo, row.BlockHours, row.Cycles,
			row.Note, row.TotalHours, row.TotalCycles,
			row.HoursToNextCheck, row.DaysToNextCheck, row.UpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("writing snapshot row %d: %w", row.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO snapshot_meta (serial, fetched_at) VALUES (?, ?)
		ON CONFLICT(serial) DO UPDATE SET fetched_at = excluded.fetched_at
	`, serial, fetchedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing snapshot metadata: %w", err)
	}

	return tx.Commit()
}

// Snapshot returns the stored canonical set and when it was fetched.
// A serial never fetched yields an empty set and a zero time.
func (c *SnapshotCache) Snapshot(serial string) ([]usage.Row, time.Time, error) {
	var fetchedAt time.Time
	var fetchedStr string
	err := c.db.QueryRow("SELECT fetched_at FROM snapshot_meta WHERE serial = ?", serial).Scan(&fetchedStr)
	switch {
	case err == sql.ErrNoRows:
		return nil, time.Time{}, nil
	case err != nil:
		return nil, time.Time{}, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	fetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedStr)

	rowset, err := c.db.Query(`
		SELECT id, date, techlog_no, block_hours, cycles, note,
		       total_hours, total_cycles, hours_to_next_check, days_to_next_check, updated_at
		FROM snapshot_rows WHERE serial = ? ORDER BY date, id
	`, serial)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot: %w", err)
	}
	defer rowset.Close()

	var rows []usage.Row
	for rowset.Next() {
		var row usage.Row
		var updatedStr string
		if err := rowset.Scan(&row.ID, &row.Date, &row.TechlogNo, &row.BlockHours, &row.Cycles,
			&row.Note, &row.TotalHours, &row.TotalCycles,
			&row.HoursToNextCheck, &row.DaysToNextCheck, &updatedStr); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning snapshot row: %w", err)
		}
		row.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		rows = append(rows, row)
	}
	return rows, fetchedAt, rowset.Err()
}

// SavePending replaces the persisted overlay for the serial with the given
// entries, preserving their insertion order.
func (c *SnapshotCache) SavePending(serial string, entries []usage.DirtyEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting pending-edit transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pending_edits WHERE serial = ?", serial); err != nil {
		return fmt.Errorf("clearing pending edits: %w", err)
	}

	for i, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO pending_edits (serial, position, key, row_id, date, techlog_no, block_hours, cycles, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, serial, i, e.Key(), e.ID, e.Date, e.TechlogNo, numberText(e.BlockHours), numberText(e.Cycles), e.Note)
		if err != nil {
			return fmt.Errorf("writing pending edit %q: %w", e.Key(), err)
		}
	}

	return tx.Commit()
}

// Pending loads the persisted overlay entries for the serial in insertion
// order.
func (c *SnapshotCache) Pending(serial string) ([]usage.DirtyEntry, error) {
	rowset, err := c.db.Query(`
		SELECT row_id, date, techlog_no, block_hours, cycles, note
		FROM pending_edits WHERE serial = ? ORDER BY position
	`, serial)
	if err != nil {
		return nil, fmt.Errorf("reading pending edits: %w", err)
	}
	defer rowset.Close()

	var entries []usage.DirtyEntry
	for rowset.Next() {
		var e usage.DirtyEntry
		var blockHours, cycles sql.NullString
		if err := rowset.Scan(&e.ID, &e.Date, &e.TechlogNo, &blockHours, &cycles, &e.Note); err != nil {
			return nil, fmt.Errorf("scanning pending edit: %w", err)
		}
		if blockHours.Valid {
			n := usage.ParseNumber(blockHours.String)
			e.BlockHours = &n
		}
		if cycles.Valid {
			n := usage.ParseNumber(cycles.String)
			e.Cycles = &n
		}
		entries = append(entries, e)
	}
	return entries, rowset.Err()
}

// ClearPending drops the persisted overlay for the serial.
func (c *SnapshotCache) ClearPending(serial string) error {
	_, err := c.db.Exec("DELETE FROM pending_edits WHERE serial = ?", serial)
	if err != nil {
		return fmt.Errorf("clearing pending edits: %w", err)
	}
	return nil
}

func (c *SnapshotCache) Close() error {
	return c.db.Close()
}

// numberText renders a numeric cell for storage. strconv keeps "NaN"
// parseable on the way back, so coerced garbage input survives a restart.
func numberText(n *usage.Number) *string {
	if n == nil {
		return nil
	}
	s := strconv.FormatFloat(float64(*n), 'g', -1, 64)
	return &s
}
