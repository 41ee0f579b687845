package feedback

import (
	"log"
	"sync"

	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

// LogSink writes status changes and utterances to the process log.
type LogSink struct {
	Nop
}

func (LogSink) Status(s Status) {
	log.Printf("status: %s [%s]", s.Text, s.Tone)
}

func (LogSink) Speak(text string) {
	log.Printf("speech: %s", text)
}

// Recorder remembers every call. Useful in tests and replays.
type Recorder struct {
	mu        sync.Mutex
	statuses  []Status
	speeches  []string
	overlays  []OverlayData
	refreshes int
}

func (r *Recorder) Status(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *Recorder) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speeches = append(r.speeches, text)
}

func (r *Recorder) Overlay(rect overlay.Rect, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlays = append(r.overlays, OverlayData{Visible: visible, Rect: rect})
}

func (r *Recorder) RefreshLog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
}

// Statuses returns a copy of the recorded statuses.
func (r *Recorder) Statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

// Speeches returns a copy of the recorded utterances.
func (r *Recorder) Speeches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.speeches...)
}

// Overlays returns a copy of the recorded overlay updates.
func (r *Recorder) Overlays() []OverlayData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OverlayData(nil), r.overlays...)
}

// Refreshes returns how many log refreshes were requested.
func (r *Recorder) Refreshes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}
