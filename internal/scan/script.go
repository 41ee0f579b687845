package scan

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
	"gopkg.in/yaml.v3"
)

// Script is a recorded or hand-written sequence of detector results, used to
// drive a controller without a browser.
type Script struct {
	Viewport   ScriptSize   `yaml:"viewport"`
	IntervalMS int          `yaml:"interval_ms"`
	Steps      []ScriptStep `yaml:"steps"`
}

// ScriptSize is a viewport in a script.
type ScriptSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ScriptStep is one detector result, optionally repeated.
// A step without a box means no face.
type ScriptStep struct {
	Box    *ScriptBox `yaml:"box"`
	Score  float64    `yaml:"score"`
	Repeat int        `yaml:"repeat"`
}

// ScriptBox is a normalized bounding box in a script.
type ScriptBox struct {
	XCenter float64 `yaml:"x_center"`
	YCenter float64 `yaml:"y_center"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// LoadScript reads a YAML detection script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript parses a YAML detection script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	for i, step := range s.Steps {
		if step.Repeat < 0 {
			return nil, fmt.Errorf("step %d: negative repeat", i+1)
		}
		if step.Box != nil && (step.Box.Width <= 0 || step.Box.Height <= 0) {
			return nil, fmt.Errorf("step %d: box must have a positive size", i+1)
		}
	}
	return &s, nil
}

// Interval is the delay between two detections, 100ms when unset.
func (s *Script) Interval() time.Duration {
	if s.IntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// Detections expands the steps into the detections to send.
func (s *Script) Detections() []Detection {
	vp := overlay.Size{Width: s.Viewport.Width, Height: s.Viewport.Height}

	var out []Detection
	for _, step := range s.Steps {
		ev := overlay.DetectionEvent{Score: step.Score}
		if step.Box != nil {
			ev.Present = true
			ev.Box = overlay.Box{
				XCenter: step.Box.XCenter,
				YCenter: step.Box.YCenter,
				Width:   step.Box.Width,
				Height:  step.Box.Height,
			}
		}
		n := max(step.Repeat, 1)
		for range n {
			out = append(out, Detection{Event: ev, Viewport: vp})
		}
	}
	return out
}
