// Package capture renders camera frames into the mirrored JPEG stills sent for recognition.
package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const dataURLPrefix = "data:image/jpeg;base64,"

// ErrEmptySource is returned when the source has no pixels (camera not ready yet).
var ErrEmptySource = errors.New("capture source is empty")

// ErrFrameTooLarge is returned for frames wider or taller than constants.MaxFrameDimension.
var ErrFrameTooLarge = errors.New("frame dimensions too large")

// Options controls the target canvas. Zero Width/Height keeps the source resolution.
type Options struct {
	Width   int
	Height  int
	Quality int
}

// Verification is the fixed canvas used for recognition requests.
var Verification = Options{
	Width:   constants.VerificationWidth,
	Height:  constants.VerificationHeight,
	Quality: constants.VerificationQuality,
}

// Enrollment keeps the native camera resolution at a higher quality.
var Enrollment = Options{
	Quality: constants.EnrollmentQuality,
}

// Frame is an encoded still image.
type Frame struct {
	JPEG   []byte
	Width  int
	Height int
}

// DataURL returns the frame as a data URL, the form the backend expects.
func (f *Frame) DataURL() string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(f.JPEG)
}

// Encode draws src horizontally flipped into the target canvas and JPEG-encodes it,
// so the still matches what the user sees on the mirrored screen.
func Encode(src image.Image, opts Options) (*Frame, error) {
	if src == nil {
		return nil, ErrEmptySource
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptySource
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = constants.VerificationQuality
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Transform(canvas, mirrorTransform(bounds, width, height), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode capture: %w", err)
	}

	return &Frame{JPEG: buf.Bytes(), Width: width, Height: height}, nil
}

// mirrorTransform maps source coordinates onto a width x height canvas,
// scaling to fit and flipping around the vertical axis.
func mirrorTransform(src image.Rectangle, width, height int) f64.Aff3 {
	sx := float64(width) / float64(src.Dx())
	sy := float64(height) / float64(src.Dy())
	return f64.Aff3{
		-sx, 0, float64(width) + sx*float64(src.Min.X),
		0, sy, -sy * float64(src.Min.Y),
	}
}

// DecodeDataURL decodes a data URL (or bare base64 payload) into an image.
// JPEG, PNG and BMP payloads are accepted. The header is checked before any
// pixel data is decoded.
func DecodeDataURL(s string) (image.Image, error) {
	payload := s
	if _, after, ok := strings.Cut(s, ","); ok && strings.HasPrefix(s, "data:") {
		payload = after
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width > constants.MaxFrameDimension || cfg.Height > constants.MaxFrameDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
