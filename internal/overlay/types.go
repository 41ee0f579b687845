// Package overlay maps face-detector output onto the mirrored kiosk video.
package overlay

// Box is a detector bounding box. All fields are fractions (0-1) of the analyzed frame.
type Box struct {
	XCenter float64 `json:"xCenter"`
	YCenter float64 `json:"yCenter"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// DetectionEvent is one detector result for one analyzed frame.
// Box is meaningful only when Present is true.
type DetectionEvent struct {
	Present bool    `json:"present"`
	Box     Box     `json:"box"`
	Score   float64 `json:"score,omitempty"` // informational, filtering is the detector's job
}

// Size is the rendered size of the video element in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the size was left unset.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is the face guideline in on-screen pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return r.Left + r.Width/2
}

// Corners converts the rectangle to [x1, y1, x2, y2] corner format.
func (r Rect) Corners() [4]float64 {
	return [4]float64{r.Left, r.Top, r.Left + r.Width, r.Top + r.Height}
}
