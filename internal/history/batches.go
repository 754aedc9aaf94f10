package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediaforge/internal/jobs"
	"mediaforge/internal/services"
)

// ErrNotFound is returned when a batch ID has no record.
var ErrNotFound = errors.New("batch not found")

// Batch is a stored batch summary.
type Batch struct {
	ID             string
	Label          string
	Status         jobs.Status
	ProcessedCount int
	Succeeded      int
	Failed         int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Item is a stored batch item.
type Item struct {
	Index      int
	InputPath  string
	OutputPath string
	Success    bool
	ErrorKind  services.Kind
	ErrorMsg   string
	Backend    jobs.Backend
	Metrics    *jobs.Metrics
}

// Record stores a finished batch and its items atomically.
func (s *Store) Record(ctx context.Context, result jobs.BatchResult, started, finished time.Time) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin history tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `INSERT INTO batches
			(id, label, status, processed_count, succeeded, failed, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID, result.Label, string(result.Status()), result.ProcessedCount,
			result.Succeeded(), result.Failed(),
			started.UTC().Format(time.RFC3339Nano), finished.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO batch_items
			(batch_id, item_index, input_path, output_path, success, error_kind, error_message,
			 backend, duration_seconds, size_bytes, bitrate_bps)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare item insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range result.Items {
			res := item.Result
			var kind, msg sql.NullString
			if res.Error != nil {
				kind = sql.NullString{String: string(res.Error.Kind), Valid: true}
				msg = sql.NullString{String: res.Error.Message, Valid: true}
			}
			var duration sql.NullFloat64
			var size, bitrate sql.NullInt64
			if res.Metrics != nil {
				duration = sql.NullFloat64{Float64: res.Metrics.DurationSeconds, Valid: true}
				size = sql.NullInt64{Int64: res.Metrics.SizeBytes, Valid: true}
				bitrate = sql.NullInt64{Int64: res.Metrics.BitrateBps, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx,
				result.ID, i, item.InputPath, nullString(res.OutputPath), boolInt(res.Success),
				kind, msg, nullString(string(res.Backend)), duration, size, bitrate,
			); err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

// List returns the most recent batches, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, status, processed_count, succeeded, failed, started_at, finished_at
		FROM batches ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get returns one batch and its items in index order.
func (s *Store) Get(ctx context.Context, id string) (Batch, []Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, label, status, processed_count, succeeded, failed, started_at, finished_at
		FROM batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Batch{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT item_index, input_path, output_path, success, error_kind, error_message,
		backend, duration_seconds, size_bytes, bitrate_bps
		FROM batch_items WHERE batch_id = ? ORDER BY item_index`, id)
	if err != nil {
		return Batch{}, nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it                      Item
			output, kind, msg, back sql.NullString
			success                 int
			duration                sql.NullFloat64
			size, bitrate           sql.NullInt64
		)
		if err := rows.Scan(&it.Index, &it.InputPath, &output, &success, &kind, &msg, &back, &duration, &size, &bitrate); err != nil {
			return Batch{}, nil, fmt.Errorf("scan item: %w", err)
		}
		it.OutputPath = output.String
		it.Success = success != 0
		it.ErrorKind = services.Kind(kind.String)
		it.ErrorMsg = msg.String
		it.Backend = jobs.Backend(back.String)
		if duration.Valid || size.Valid || bitrate.Valid {
			it.Metrics = &jobs.Metrics{DurationSeconds: duration.Float64, SizeBytes: size.Int64, BitrateBps: bitrate.Int64}
		}
		items = append(items, it)
	}
	return b, items, rows.Err()
}

// Clear deletes every recorded batch and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM batches")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(r rowScanner) (Batch, error) {
	var (
		b                 Batch
		status            string
		started, finished string
	)
	if err := r.Scan(&b.ID, &b.Label, &status, &b.ProcessedCount, &b.Succeeded, &b.Failed, &started, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, err
		}
		return Batch{}, fmt.Errorf("scan batch: %w", err)
	}
	b.Status = jobs.Status(status)
	b.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	b.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	return b, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
