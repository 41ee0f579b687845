package capture

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
)

// splitImage returns an image whose left half is red and right half is blue.
func splitImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x < w/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func isBlue(c color.Color) bool {
	r, _, b, _ := c.RGBA()
	return b > r
}

func TestEncode_VerificationSizeAndMirror(t *testing.T) {
	src := splitImage(1280, 720)

	frame, err := Encode(src, Verification)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if frame.Width != 640 || frame.Height != 480 {
		t.Fatalf("expected 640x480, got %dx%d", frame.Width, frame.Height)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(frame.JPEG))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}

	if decoded.Bounds().Dx() != 640 || decoded.Bounds().Dy() != 480 {
		t.Errorf("unexpected decoded bounds %v", decoded.Bounds())
	}

	// Source left half is red, so the mirrored still must be blue on the left.
	if !isBlue(decoded.At(80, 240)) {
		t.Errorf("expected mirrored left side to be blue, got %v", decoded.At(80, 240))
	}
	if isBlue(decoded.At(560, 240)) {
		t.Errorf("expected mirrored right side to be red, got %v", decoded.At(560, 240))
	}
}

func TestEncode_NativeResolution(t *testing.T) {
	src := splitImage(320, 200)

	frame, err := Encode(src, Enrollment)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if frame.Width != 320 || frame.Height != 200 {
		t.Errorf("expected native 320x200, got %dx%d", frame.Width, frame.Height)
	}
}

func TestEncode_OffsetBounds(t *testing.T) {
	full := splitImage(200, 100)
	sub := full.SubImage(image.Rect(100, 0, 200, 100)) // blue only

	frame, err := Encode(sub, Options{Width: 50, Height: 50, Quality: 90})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(frame.JPEG))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if !isBlue(decoded.At(25, 25)) {
		t.Errorf("expected sub-image content to fill the canvas, got %v", decoded.At(25, 25))
	}
}

func TestEncode_EmptySource(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
	}{
		{name: "nil source", src: nil},
		{name: "zero sized source", src: image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.src, Verification)
			if !errors.Is(err, ErrEmptySource) {
				t.Errorf("expected ErrEmptySource, got %v", err)
			}
		})
	}
}

func TestFrame_DataURL(t *testing.T) {
	frame := &Frame{JPEG: []byte{0xff, 0xd8, 0xff}}

	url := frame.DataURL()
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("unexpected prefix: %s", url)
	}
	if !strings.HasSuffix(url, base64.StdEncoding.EncodeToString(frame.JPEG)) {
		t.Errorf("unexpected payload: %s", url)
	}
}

func TestDecodeDataURL(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, splitImage(8, 4)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	for _, input := range []string{"data:image/png;base64," + payload, payload} {
		img, err := DecodeDataURL(input)
		if err != nil {
			t.Fatalf("DecodeDataURL failed: %v", err)
		}
		if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
			t.Errorf("unexpected bounds %v", img.Bounds())
		}
	}

	if _, err := DecodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := DecodeDataURL(base64.StdEncoding.EncodeToString([]byte("not an image"))); err == nil {
		t.Error("expected error for non-image payload")
	}
}

// pngWithHeaderSize returns a small PNG whose IHDR claims the given size.
func pngWithHeaderSize(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, splitImage(8, 4)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	data := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeDataURL_RejectsOversizedHeader(t *testing.T) {
	huge := base64.StdEncoding.EncodeToString(pngWithHeaderSize(t, 40000, 40000))
	_, err := DecodeDataURL("data:image/png;base64," + huge)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}

	tall := base64.StdEncoding.EncodeToString(pngWithHeaderSize(t, 8, constants.MaxFrameDimension+1))
	if _, err := DecodeDataURL(tall); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge for tall frame, got %v", err)
	}
}

func TestMirrorTransform(t *testing.T) {
	m := mirrorTransform(image.Rect(0, 0, 100, 50), 200, 100)

	// Source x=0 maps to the far right edge; x=100 to the left edge.
	if got := m[0]*0 + m[2]; got != 200 {
		t.Errorf("expected x=0 -> 200, got %v", got)
	}
	if got := m[0]*100 + m[2]; got != 0 {
		t.Errorf("expected x=100 -> 0, got %v", got)
	}
	if got := m[4]*50 + m[5]; got != 100 {
		t.Errorf("expected y=50 -> 100, got %v", got)
	}
}
