// Package camera provides the live frame sources the kiosk captures from.
package camera

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"
)

// ErrNoFrame is returned when a source has not produced a frame yet.
var ErrNoFrame = errors.New("no frame available")

// FrameSource yields the current camera frame.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Latest is a single-slot buffer holding the most recent pushed frame.
// Frames older than maxAge are treated as missing.
type Latest struct {
	mu     sync.RWMutex
	img    image.Image
	at     time.Time
	maxAge time.Duration
	now    func() time.Time
}

// NewLatest creates an empty buffer. A zero maxAge never expires frames.
func NewLatest(maxAge time.Duration) *Latest {
	return &Latest{maxAge: maxAge, now: time.Now}
}

// Store replaces the buffered frame.
func (l *Latest) Store(img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.img = img
	l.at = l.now()
}

// Frame returns the buffered frame or ErrNoFrame.
func (l *Latest) Frame(_ context.Context) (image.Image, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.img == nil {
		return nil, ErrNoFrame
	}
	if l.maxAge > 0 && l.now().Sub(l.at) > l.maxAge {
		return nil, ErrNoFrame
	}
	return l.img, nil
}

// Size returns the pixel size of the buffered frame, zero when empty.
func (l *Latest) Size() (int, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.img == nil {
		return 0, 0
	}
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}
