package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/gastos/internal/domain/models"
)

// ErrNoSnapshot is returned when a range has never been ingested.
var ErrNoSnapshot = errors.New("no snapshot stored for range")

// SnapshotRepository stores dated copies of spreadsheet ranges.
//
// A snapshot is identified by (range name, snapshot date). Rows keep their
// position in the sheet (row_index 0 is the header) and their raw cell text.
type SnapshotRepository interface {
	HasSnapshotForDate(ctx context.Context, rangeName string, day time.Time) (bool, error)
	ReplaceSnapshot(ctx context.Context, rangeName string, day time.Time, rows []models.Row, batchSize int) error
	LatestSnapshot(ctx context.Context, rangeName string) (models.Table, error)
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// HasSnapshotForDate checks snapshot_log for a (range, day) entry.
func (r *snapshotRepository) HasSnapshotForDate(ctx context.Context, rangeName string, day time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM snapshot_log WHERE range_name = $1 AND snapshot_date = $2)`,
		rangeName, day,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ReplaceSnapshot stores rows as the (range, day) snapshot in one transaction.
//
// Rows already stored for that key are removed first, whether or not the log
// has an entry for them, so a previous partial run never blocks a new one.
// Rows are copied in batches of batchSize; row i is stored with row_index i.
// The log entry is written last. Any failure rolls everything back and leaves
// the previous snapshot untouched.
func (r *snapshotRepository) ReplaceSnapshot(ctx context.Context, rangeName string, day time.Time, rows []models.Row, batchSize int) (err error) {
	if batchSize <= 0 {
		batchSize = len(rows)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Small optimization for bulk load
	if _, err = tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE range_name = $1 AND snapshot_date = $2`, rangeName, day); err != nil {
		return fmt.Errorf("delete existing: %w", err)
	}
	for first := 0; first < len(rows); first += batchSize {
		if err = ctx.Err(); err != nil {
			return err
		}
		last := min(first+batchSize, len(rows))
		if err = copyRows(ctx, tx, rangeName, day, first, rows[first:last]); err != nil {
			return fmt.Errorf("insert batch at row %d: %w", first, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_log (range_name, snapshot_date, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (range_name, snapshot_date)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  fetched_at = NOW()
	`, rangeName, day, len(rows)); err != nil {
		return fmt.Errorf("upsert snapshot log: %w", err)
	}
	return tx.Commit()
}

// copyRows bulk loads one batch through COPY. Row i of the batch is stored
// with row_index firstIndex+i.
func copyRows(ctx context.Context, tx *sql.Tx, rangeName string, day time.Time, firstIndex int, rows []models.Row) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"sheet_rows",
		"range_name",
		"snapshot_date",
		"row_index",
		"cells",
	))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, rangeName, day, firstIndex+i, pq.Array([]string(row))); err != nil {
			return err
		}
	}
	_, err = stmt.ExecContext(ctx)
	return err
}

// LatestSnapshot loads the most recent snapshot of a range in sheet order.
func (r *snapshotRepository) LatestSnapshot(ctx context.Context, rangeName string) (models.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cells
		FROM sheet_rows
		WHERE range_name = $1
		  AND snapshot_date = (SELECT MAX(snapshot_date) FROM snapshot_log WHERE range_name = $1)
		ORDER BY row_index
	`, rangeName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out models.Table
	for rows.Next() {
		var cells []string
		if err := rows.Scan(pq.Array(&cells)); err != nil {
			return nil, err
		}
		out = append(out, models.Row(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, rangeName)
	}
	return out, nil
}

// SnapshotSource serves the latest stored snapshot of one range.
type SnapshotSource struct {
	Repo      SnapshotRepository
	RangeName string
}

// FetchTable returns the latest snapshot of the configured range.
func (s SnapshotSource) FetchTable(ctx context.Context) (models.Table, error) {
	return s.Repo.LatestSnapshot(ctx, s.RangeName)
}
