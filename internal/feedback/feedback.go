// Package feedback turns scan outcomes into status updates, speech and log refreshes.
// Every sink is fire-and-forget: nothing it does can affect the scan loop.
package feedback

import (
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

// Tone is the categorical color/severity of a status update.
type Tone string

const (
	ToneVerifying Tone = "verifying"
	ToneSuccess   Tone = "success"
	ToneDuplicate Tone = "duplicate"
	ToneUnknown   Tone = "unknown"
	ToneError     Tone = "error"
)

// Status is one visible status indicator update.
type Status struct {
	Text string    `json:"text"`
	Tone Tone      `json:"tone"`
	At   time.Time `json:"at"`
}

// Sink receives feedback from the scan controller. Implementations must not block.
type Sink interface {
	Status(s Status)
	Speak(text string)
	Overlay(r overlay.Rect, visible bool)
	RefreshLog()
}

// Nop ignores everything. Embed it to implement only part of Sink.
type Nop struct{}

func (Nop) Status(Status)              {}
func (Nop) Speak(string)               {}
func (Nop) Overlay(overlay.Rect, bool) {}
func (Nop) RefreshLog()                {}

// Fanout forwards every call to all sinks in order.
type Fanout []Sink

func (f Fanout) Status(s Status) {
	for _, sink := range f {
		sink.Status(s)
	}
}

func (f Fanout) Speak(text string) {
	for _, sink := range f {
		sink.Speak(text)
	}
}

func (f Fanout) Overlay(r overlay.Rect, visible bool) {
	for _, sink := range f {
		sink.Overlay(r, visible)
	}
}

func (f Fanout) RefreshLog() {
	for _, sink := range f {
		sink.RefreshLog()
	}
}
