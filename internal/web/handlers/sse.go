package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/feedback"
)

// EventSource is a feedback broadcaster that SSE clients can subscribe to.
type EventSource interface {
	AddListener() chan feedback.Event
	RemoveListener(ch chan feedback.Event)
}

// EventsHandler streams feedback events to kiosk screens.
type EventsHandler struct {
	source EventSource
	status StatusProvider
}

// NewEventsHandler creates an SSE handler.
func NewEventsHandler(source EventSource, status StatusProvider) *EventsHandler {
	return &EventsHandler{source: source, status: status}
}

// setupSSEConnection sets the SSE headers. On failure, writes an error
// response and returns false.
func setupSSEConnection(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return flusher, true
}

// Events streams every feedback event until the client disconnects.
// The first event is a "state" event with the controller snapshot.
func (h *EventsHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := setupSSEConnection(w)
	if !ok {
		return
	}

	eventCh := h.source.AddListener()
	defer h.source.RemoveListener(eventCh)

	if h.status != nil {
		sendSSEEvent(w, flusher, "state", h.status.Snapshot())
	} else {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event.Data)
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}
