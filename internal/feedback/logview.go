package feedback

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
)

// LogFetcher fetches today's check-ins.
type LogFetcher interface {
	TodayLog(ctx context.Context) ([]backend.LogEntry, error)
}

// LogView holds the displayed list of today's check-ins.
// Each successful fetch replaces the whole list. Refreshes triggered while a
// fetch is running collapse into one trailing fetch.
type LogView struct {
	Nop

	fetcher  LogFetcher
	timeout  time.Duration
	onUpdate func([]backend.LogEntry)

	mu      sync.Mutex
	entries []backend.LogEntry
	running bool
	pending bool
	fetches int
	wg      sync.WaitGroup
}

// NewLogView creates an empty log view. onUpdate, when set, is called after every replacement.
func NewLogView(fetcher LogFetcher, onUpdate func([]backend.LogEntry)) *LogView {
	return &LogView{fetcher: fetcher, timeout: 10 * time.Second, onUpdate: onUpdate}
}

// Load fetches the list synchronously. Used for the initial render.
func (v *LogView) Load(ctx context.Context) error {
	entries, err := v.fetcher.TodayLog(ctx)
	if err != nil {
		return err
	}
	v.replace(entries)
	return nil
}

// RefreshLog schedules a best-effort background fetch.
func (v *LogView) RefreshLog() {
	v.mu.Lock()
	if v.running {
		v.pending = true
		v.mu.Unlock()
		return
	}
	v.running = true
	v.mu.Unlock()

	v.wg.Add(1)
	go v.refreshLoop()
}

func (v *LogView) refreshLoop() {
	defer v.wg.Done()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
		entries, err := v.fetcher.TodayLog(ctx)
		cancel()

		if err != nil {
			log.Printf("Error loading today log: %v", err)
		} else {
			v.replace(entries)
		}

		v.mu.Lock()
		v.fetches++
		if v.pending {
			v.pending = false
			v.mu.Unlock()
			continue
		}
		v.running = false
		v.mu.Unlock()
		return
	}
}

// replace swaps in a new list, dropping repeated entries.
func (v *LogView) replace(entries []backend.LogEntry) {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]backend.LogEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		seen[e.Key()] = struct{}{}
		unique = append(unique, e)
	}

	v.mu.Lock()
	v.entries = unique
	v.mu.Unlock()

	if v.onUpdate != nil {
		v.onUpdate(v.Entries())
	}
}

// Entries returns a copy of the displayed list.
func (v *LogView) Entries() []backend.LogEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]backend.LogEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Fetches returns the number of background fetches completed.
func (v *LogView) Fetches() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetches
}

// Wait blocks until background refreshes finish.
func (v *LogView) Wait() {
	v.wg.Wait()
}
