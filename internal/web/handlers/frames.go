package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/attendance-kiosk/internal/camera"
	"github.com/kozaktomas/attendance-kiosk/internal/capture"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
)

// FramesHandler receives camera frames pushed by the kiosk page.
type FramesHandler struct {
	latest *camera.Latest
}

// NewFramesHandler creates a handler storing frames into latest.
func NewFramesHandler(latest *camera.Latest) *FramesHandler {
	return &FramesHandler{latest: latest}
}

// FrameRequest carries one frame as a data URL.
type FrameRequest struct {
	Image string `json:"image"`
}

// Push decodes a pushed frame and makes it the current camera frame.
func (h *FramesHandler) Push(w http.ResponseWriter, r *http.Request) {
	if h.latest == nil {
		respondError(w, http.StatusNotFound, "frame ingest is disabled")
		return
	}

	var req FrameRequest
	if err := decodeJSON(w, r, constants.MaxFrameUploadSize, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Image == "" {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}

	img, err := capture.DecodeDataURL(req.Image)
	if err != nil {
		log.Printf("frames: rejected frame: %s", sanitizeForLog(err.Error()))
		respondError(w, http.StatusBadRequest, "invalid image")
		return
	}

	h.latest.Store(img)
	w.WriteHeader(http.StatusNoContent)
}
