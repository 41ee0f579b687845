package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/journal"
)

// Repository provides PostgreSQL-backed journal storage
type Repository struct {
	pool *Pool
}

// NewRepository creates a new PostgreSQL journal repository
func NewRepository(pool *Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one entry. Re-recording the same id is a no-op.
func (r *Repository) Record(ctx context.Context, e journal.Entry) error {
	query := `
		INSERT INTO scan_journal (id, cycle_id, outcome, name, error, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.db.ExecContext(ctx, query, e.ID, e.CycleID, e.Outcome, e.Name, e.Error, e.LatencyMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// ListDay returns the entries of one calendar day, newest first.
func (r *Repository) ListDay(ctx context.Context, day time.Time) ([]journal.Entry, error) {
	start, end := journal.DayBounds(day)

	query := `
		SELECT id, cycle_id, outcome, name, error, latency_ms, created_at
		FROM scan_journal
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		var e journal.Entry
		if err := rows.Scan(&e.ID, &e.CycleID, &e.Outcome, &e.Name, &e.Error, &e.LatencyMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}

// Close closes the underlying pool.
func (r *Repository) Close() error {
	return r.pool.Close()
}
