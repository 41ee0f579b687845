// Package journal keeps a local record of completed scan cycles.
// It stores outcomes only, never images or biometric data.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one completed recognition cycle.
type Entry struct {
	ID        uuid.UUID
	CycleID   uuid.UUID
	Outcome   string
	Name      string
	Error     string
	LatencyMS int64
	CreatedAt time.Time
}

// Writer records entries.
type Writer interface {
	Record(ctx context.Context, e Entry) error
}

// Reader lists entries.
type Reader interface {
	// ListDay returns the entries created on the calendar day of day (in day's location), newest first.
	ListDay(ctx context.Context, day time.Time) ([]Entry, error)
}

// Store is a journal backend.
type Store interface {
	Writer
	Reader
	Close() error
}

// DayBounds returns the half-open [start, end) range of the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
