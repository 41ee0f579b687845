package journal

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is an in-process journal, used in tests and replays.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) ListDay(_ context.Context, day time.Time) ([]Entry, error) {
	start, end := DayBounds(day)

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for _, e := range m.entries {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// All returns every recorded entry in insertion order.
func (m *Memory) All() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

func (m *Memory) Close() error {
	return nil
}
