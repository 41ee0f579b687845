package handlers

import (
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
)

// StatusProvider exposes the controller snapshot.
type StatusProvider interface {
	Snapshot() scan.Status
}

// LogProvider exposes the displayed today's log.
type LogProvider interface {
	Entries() []backend.LogEntry
}

// StatusHandler serves controller state and today's log.
type StatusHandler struct {
	status StatusProvider
	log    LogProvider
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(status StatusProvider, log LogProvider) *StatusHandler {
	return &StatusHandler{status: status, log: log}
}

// Get returns the controller snapshot.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.status.Snapshot())
}

// Today returns the currently displayed check-ins, never null.
func (h *StatusHandler) Today(w http.ResponseWriter, r *http.Request) {
	entries := []backend.LogEntry{}
	if h.log != nil {
		if e := h.log.Entries(); e != nil {
			entries = e
		}
	}
	respondJSON(w, http.StatusOK, entries)
}
