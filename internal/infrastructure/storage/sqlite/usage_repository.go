package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"fleetlog/internal/domain/usage"
)

// UsageRepository stores canonical usage rows. updated_at doubles as the
// optimistic-concurrency token: an update only lands when the caller's
// last-seen value still matches the stored one.
type UsageRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewUsageRepository(storage *Storage, log *slog.Logger) *UsageRepository {
	return &UsageRepository{
		db:  storage.DB(),
		log: log.With("component", "usage_repository"),
	}
}

func (r *UsageRepository) ListBySerial(ctx context.Context, serial string) ([]usage.Row, error) {
	const query = `
		SELECT id, date, techlog_no, block_hours, cycles, note, updated_at
		FROM usage_rows
		WHERE serial = ?
		ORDER BY date, id`

	rowset, err := r.db.QueryContext(ctx, query, serial)
	if err != nil {
		r.log.Error("failed to list rows", "serial", serial, "error", err)
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rowset.Close()

	var rows []usage.Row
	for rowset.Next() {
		row, err := scanRow(rowset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, rowset.Err()
}

func (r *UsageRepository) Create(ctx context.Context, serial string, d usage.Draft) (usage.Row, error) {
	now := time.Now().UTC()

	const query = `
		INSERT INTO usage_rows (serial, date, techlog_no, block_hours, cycles, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		serial, d.Date, d.TechlogNo, d.BlockHours, d.Cycles, d.Note, now.Format(time.RFC3339Nano))
	if err != nil {
		r.log.Error("failed to create row", "serial", serial, "error", err)
		return usage.Row{}, fmt.Errorf("create row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return usage.Row{}, fmt.Errorf("create row id: %w", err)
	}

	return usage.Row{
		ID:         id,
		Date:       d.Date,
		TechlogNo:  d.TechlogNo,
		BlockHours: d.BlockHours,
		Cycles:     d.Cycles,
		Note:       d.Note,
		UpdatedAt:  now,
	}, nil
}

func (r *UsageRepository) Get(ctx context.Context, id int64) (usage.Row, error) {
	const query = `
		SELECT id, date, techlog_no, block_hours, cycles, note, updated_at
		FROM usage_rows
		WHERE id = ?`

	row, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usage.Row{}, fmt.Errorf("%w: row %d", usage.ErrNotFound, id)
		}
		r.log.Error("failed to get row", "id", id, "error", err)
		return usage.Row{}, fmt.Errorf("get row: %w", err)
	}
	return row, nil
}

func (r *UsageRepository) Update(ctx context.Context, id int64, p usage.Patch, lastSeen time.Time) (usage.Row, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return usage.Row{}, err
	}
	if !current.UpdatedAt.Equal(lastSeen) {
		return usage.Row{}, fmt.Errorf("%w: row %d was edited by another user", usage.ErrStaleWrite, id)
	}

	now := time.Now().UTC()

	const query = `
		UPDATE usage_rows
		SET date = ?, techlog_no = ?, block_hours = ?, cycles = ?, note = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Date, p.TechlogNo, p.BlockHours, p.Cycles, p.Note, now.Format(time.RFC3339Nano),
		id, current.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		r.log.Error("failed to update row", "id", id, "error", err)
		return usage.Row{}, fmt.Errorf("update row: %w", err)
	}

	// The guarded WHERE catches a write that landed between the read above
	// and this statement.
	affected, err := res.RowsAffected()
	if err != nil {
		return usage.Row{}, fmt.Errorf("update row result: %w", err)
	}
	if affected == 0 {
		return usage.Row{}, fmt.Errorf("%w: row %d was edited by another user", usage.ErrStaleWrite, id)
	}

	return usage.Row{
		ID:         id,
		Date:       p.Date,
		TechlogNo:  p.TechlogNo,
		BlockHours: p.BlockHours,
		Cycles:     p.Cycles,
		Note:       p.Note,
		UpdatedAt:  now,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (usage.Row, error) {
	var row usage.Row
	var updatedStr string
	if err := s.Scan(&row.ID, &row.Date, &row.TechlogNo, &row.BlockHours,
		&row.Cycles, &row.Note, &updatedStr); err != nil {
		return usage.Row{}, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return usage.Row{}, fmt.Errorf("parse updated_at: %w", err)
	}
	row.UpdatedAt = updatedAt
	return row, nil
}
