package handlers

import (
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
)

const maxDetectionBodySize = 64 << 10

// DetectionsHandler accepts detector results from the kiosk page.
type DetectionsHandler struct {
	events chan<- scan.Detection
}

// NewDetectionsHandler creates a handler feeding the controller's event channel.
func NewDetectionsHandler(events chan<- scan.Detection) *DetectionsHandler {
	return &DetectionsHandler{events: events}
}

// DetectionRequest is one detector result as posted by the page.
type DetectionRequest struct {
	Present  bool         `json:"present"`
	Box      overlay.Box  `json:"box"`
	Score    float64      `json:"score"`
	Viewport overlay.Size `json:"viewport"`
}

// DetectionResponse reports whether the controller took the event.
type DetectionResponse struct {
	Accepted bool `json:"accepted"`
}

// Ingest hands a detection to the controller without waiting. When the
// controller's buffer is full the event is dropped, the detector will report
// the face again on its next frame.
func (h *DetectionsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req DetectionRequest
	if err := decodeJSON(w, r, maxDetectionBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	d := scan.Detection{
		Event: overlay.DetectionEvent{
			Present: req.Present,
			Box:     req.Box,
			Score:   req.Score,
		},
		Viewport: req.Viewport,
	}

	select {
	case h.events <- d:
		respondJSON(w, http.StatusAccepted, DetectionResponse{Accepted: true})
	default:
		respondJSON(w, http.StatusAccepted, DetectionResponse{Accepted: false})
	}
}
