package scan

import (
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

// State is the controller's acceptance state.
type State int

const (
	// Idle accepts a new capture.
	Idle State = iota
	// Verifying has a capture in flight or is cooling down after one.
	Verifying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Verifying:
		return "verifying"
	default:
		return "unknown"
	}
}

// Detection is one detector result together with the rendered video size.
// A zero Viewport falls back to the controller's configured viewport.
type Detection struct {
	Event    overlay.DetectionEvent `json:"event"`
	Viewport overlay.Size           `json:"viewport"`
}

// Cooldowns holds the re-arm delay per outcome.
type Cooldowns struct {
	Recognized     time.Duration
	AlreadyPresent time.Duration
	Unrecognized   time.Duration
	TransportError time.Duration
}

// DefaultCooldowns returns the standard re-arm delays.
func DefaultCooldowns() Cooldowns {
	return Cooldowns{
		Recognized:     constants.CooldownRecognized,
		AlreadyPresent: constants.CooldownAlreadyPresent,
		Unrecognized:   constants.CooldownUnrecognized,
		TransportError: constants.CooldownTransportError,
	}
}

// For returns the delay for an outcome kind.
func (c Cooldowns) For(kind backend.OutcomeKind) time.Duration {
	switch kind {
	case backend.Recognized:
		return c.Recognized
	case backend.AlreadyPresent:
		return c.AlreadyPresent
	case backend.Unrecognized:
		return c.Unrecognized
	default:
		return c.TransportError
	}
}

// LastOutcome describes the most recent completed cycle.
type LastOutcome struct {
	CycleID string    `json:"cycle_id"`
	Kind    string    `json:"kind"`
	Name    string    `json:"name,omitempty"`
	Latency int64     `json:"latency_ms"`
	At      time.Time `json:"at"`
}

// Status is a point-in-time copy of the controller, safe to hand to other goroutines.
type Status struct {
	State   string       `json:"state"`
	Cooling bool         `json:"cooling"`
	Cycles  int          `json:"cycles"`
	Dropped int          `json:"dropped"`
	Last    *LastOutcome `json:"last,omitempty"`
}
