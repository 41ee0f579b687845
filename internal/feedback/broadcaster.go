package feedback

import (
	"sync"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

// Event types streamed to kiosk screens.
const (
	EventStatus  = "status"
	EventSpeech  = "speech"
	EventOverlay = "overlay"
	EventLog     = "log"
)

// Event is one feedback event for a kiosk screen.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// OverlayData is the payload of an overlay event.
type OverlayData struct {
	Visible bool         `json:"visible"`
	Rect    overlay.Rect `json:"rect"`
}

// Broadcaster fans feedback out to connected listeners (SSE clients).
// Slow listeners lose events instead of blocking the sender.
type Broadcaster struct {
	Nop

	listeners []chan Event
	mu        sync.RWMutex
}

// NewBroadcaster creates a broadcaster without listeners.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// AddListener adds an event listener.
func (b *Broadcaster) AddListener() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *Broadcaster) RemoveListener(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// ListenerCount returns the number of connected listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Send sends an event to all listeners.
func (b *Broadcaster) Send(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

func (b *Broadcaster) Status(s Status) {
	b.Send(Event{Type: EventStatus, Data: s})
}

func (b *Broadcaster) Speak(text string) {
	b.Send(Event{Type: EventSpeech, Data: text})
}

func (b *Broadcaster) Overlay(r overlay.Rect, visible bool) {
	b.Send(Event{Type: EventOverlay, Data: OverlayData{Visible: visible, Rect: r}})
}

// LogUpdated announces a replaced today's-log list.
func (b *Broadcaster) LogUpdated(entries []backend.LogEntry) {
	b.Send(Event{Type: EventLog, Data: entries})
}
