package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleScript = `
viewport:
  width: 1280
  height: 720
interval_ms: 50
steps:
  - repeat: 2
  - box: {x_center: 0.5, y_center: 0.45, width: 0.3, height: 0.4}
    score: 0.92
    repeat: 3
  - box: {x_center: 0.2, y_center: 0.5, width: 0.1, height: 0.1}
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(sampleScript))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if s.Interval() != 50*time.Millisecond {
		t.Errorf("unexpected interval %s", s.Interval())
	}

	ds := s.Detections()
	if len(ds) != 6 {
		t.Fatalf("expected 6 detections, got %d", len(ds))
	}
	if ds[0].Event.Present || ds[1].Event.Present {
		t.Error("steps without a box must not be present")
	}
	d := ds[2]
	if !d.Event.Present || d.Event.Box.YCenter != 0.45 || d.Event.Score != 0.92 {
		t.Errorf("unexpected detection %+v", d.Event)
	}
	if d.Viewport.Width != 1280 || d.Viewport.Height != 720 {
		t.Errorf("unexpected viewport %+v", d.Viewport)
	}
	if ds[5].Event.Box.XCenter != 0.2 {
		t.Errorf("last step not expanded once: %+v", ds[5].Event)
	}
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"no steps", "interval_ms: 10\n"},
		{"bad yaml", "steps: [\n"},
		{"negative repeat", "steps:\n  - repeat: -1\n"},
		{"empty box", "steps:\n  - box: {x_center: 0.5, y_center: 0.5}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tc.script)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(sampleScript), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(s.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(s.Steps))
	}

	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestScript_DefaultInterval(t *testing.T) {
	s := &Script{}
	if s.Interval() != 100*time.Millisecond {
		t.Errorf("unexpected default interval %s", s.Interval())
	}
}
