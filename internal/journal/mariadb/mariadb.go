// Package mariadb stores the scan journal in MariaDB/MySQL.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/journal"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_journal (
	id          CHAR(36) PRIMARY KEY,
	cycle_id    CHAR(36) NOT NULL,
	outcome     VARCHAR(32) NOT NULL,
	name        VARCHAR(255) NOT NULL DEFAULT '',
	error       TEXT,
	latency_ms  BIGINT NOT NULL DEFAULT 0,
	created_at  DATETIME(3) NOT NULL,
	INDEX idx_scan_journal_created_at (created_at)
)`

// Repository provides MariaDB-backed journal storage.
type Repository struct {
	db *sql.DB
}

// Open connects to MariaDB and ensures the journal table exists.
func Open(ctx context.Context, cfg *config.JournalConfig) (*Repository, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return &Repository{db: db}, nil
}

// openDB prepares the connection pool without connecting.
func openDB(cfg *config.JournalConfig) (*sql.DB, error) {
	if cfg.MariaDBDSN == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	normalized, err := normalizeDSN(cfg.MariaDBDSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)
	return db, nil
}

// normalizeDSN forces parseTime and UTC so DATETIME columns scan into comparable time.Time values.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Record inserts one entry. Re-recording the same id is a no-op.
func (r *Repository) Record(ctx context.Context, e journal.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT IGNORE INTO scan_journal (id, cycle_id, outcome, name, error, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID.String(), e.CycleID.String(), e.Outcome, e.Name, e.Error, e.LatencyMS, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// ListDay returns the entries of one calendar day, newest first.
func (r *Repository) ListDay(ctx context.Context, day time.Time) ([]journal.Entry, error) {
	start, end := journal.DayBounds(day)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cycle_id, outcome, name, COALESCE(error, ''), latency_ms, created_at
		FROM scan_journal
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC
	`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		var (
			e           journal.Entry
			id, cycleID string
		)
		if err := rows.Scan(&id, &cycleID, &e.Outcome, &e.Name, &e.Error, &e.LatencyMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse journal id: %w", err)
		}
		if e.CycleID, err = uuid.Parse(cycleID); err != nil {
			return nil, fmt.Errorf("parse journal cycle id: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}

// Close closes the connection pool.
func (r *Repository) Close() error {
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}
