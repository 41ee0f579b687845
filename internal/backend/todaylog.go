package backend

import (
	"context"
	"fmt"
)

// LogEntry is one check-in of today as listed by the backend.
type LogEntry struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"nama"`
	Time string `json:"waktu"`
}

// Key identifies the entry: the backend id when present, otherwise name and time.
func (e LogEntry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name + "|" + e.Time
}

// TodayLog fetches today's check-ins, newest first.
func (c *Client) TodayLog(ctx context.Context) ([]LogEntry, error) {
	entries, err := doGetJSON[[]LogEntry](ctx, c, "api/today_log")
	if err != nil {
		return nil, fmt.Errorf("fetching today log: %w", err)
	}
	return *entries, nil
}
