package overlay

// Project maps a detection onto the mirrored video element of size vp.
// The video is shown mirrored but detector coordinates are not, so the
// horizontal position is flipped. Returns false when no face is present
// (guideline hidden). Out-of-range boxes are passed through uncorrected.
func Project(ev DetectionEvent, vp Size) (Rect, bool) {
	if !ev.Present {
		return Rect{}, false
	}

	w := ev.Box.Width * vp.Width
	h := ev.Box.Height * vp.Height

	return Rect{
		Left:   vp.Width - ev.Box.XCenter*vp.Width - w/2,
		Top:    ev.Box.YCenter*vp.Height - h/2,
		Width:  w,
		Height: h,
	}, true
}

// ComputeIoU calculates Intersection over Union between two rectangles
// given as [x1, y1, x2, y2] in the same coordinate system.
func ComputeIoU(a, b [4]float64) float64 {
	// Calculate intersection.
	x1 := max(a[0], b[0])
	y1 := max(a[1], b[1])
	x2 := min(a[2], b[2])
	y2 := min(a[3], b[3])

	if x2 <= x1 || y2 <= y1 {
		return 0 // No intersection
	}

	intersection := (x2 - x1) * (y2 - y1)

	// Calculate union.
	area1 := (a[2] - a[0]) * (a[3] - a[1])
	area2 := (b[2] - b[0]) * (b[3] - b[1])
	union := area1 + area2 - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}
