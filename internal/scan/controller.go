// Package scan runs the attendance scan loop: detector events in, at most one
// recognition request out, outcome-dependent cooldowns, and user feedback.
package scan

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/camera"
	"github.com/kozaktomas/attendance-kiosk/internal/capture"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/feedback"
	"github.com/kozaktomas/attendance-kiosk/internal/journal"
	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

const journalTimeout = 5 * time.Second

// Recognizer submits one frame and classifies the reply. It must not fail:
// every problem is reported as a TransportError outcome.
type Recognizer interface {
	Submit(ctx context.Context, frame *capture.Frame) backend.Outcome
}

// Deps are the collaborators of a Controller. Journal may be nil.
type Deps struct {
	Source     camera.FrameSource
	Recognizer Recognizer
	Sink       feedback.Sink
	Messages   *feedback.Messages
	Journal    journal.Writer
}

// Option configures a Controller.
type Option func(*Controller)

// WithCooldowns overrides the re-arm delays.
func WithCooldowns(c Cooldowns) Option {
	return func(ctrl *Controller) {
		ctrl.cooldowns = c
	}
}

// WithCapture overrides the capture canvas.
func WithCapture(opts capture.Options) Option {
	return func(ctrl *Controller) {
		ctrl.capture = opts
	}
}

// WithClock replaces the clock used for cooldown timers.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithViewport sets the rendered video size used when a detection carries none.
func WithViewport(s overlay.Size) Option {
	return func(ctrl *Controller) {
		ctrl.viewport = s
	}
}

// result is what the recognition goroutine hands back to the loop.
type result struct {
	cycle   uuid.UUID
	outcome backend.Outcome
	latency time.Duration
}

// Controller owns the scan state. All state transitions happen on the
// goroutine running Run; other goroutines only read Snapshot.
type Controller struct {
	deps      Deps
	cooldowns Cooldowns
	capture   capture.Options
	clock     Clock
	viewport  overlay.Size

	// Owned by the Run goroutine.
	state    State
	timer    Timer
	cycle    uuid.UUID
	started  time.Time
	lastRect *overlay.Rect
	results  chan result
	bg       sync.WaitGroup

	mu   sync.RWMutex
	snap Status
}

// New creates a controller in the Idle state.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:      deps,
		cooldowns: DefaultCooldowns(),
		capture:   capture.Verification,
		clock:     realClock{},
		viewport:  overlay.Size{Width: constants.DefaultViewportWidth, Height: constants.DefaultViewportHeight},
		results:   make(chan result, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.deps.Sink == nil {
		c.deps.Sink = feedback.Nop{}
	}
	c.snap.State = Idle.String()
	return c
}

// Run consumes detections until ctx is cancelled or events is closed.
// When events closes, Run returns nil once the current cycle and its cooldown
// have finished. Cancelling ctx abandons an in-flight request.
func (c *Controller) Run(ctx context.Context, events <-chan Detection) error {
	defer c.bg.Wait()
	defer c.stopTimer()

	closed := false
	for {
		if closed && c.state == Idle {
			return nil
		}

		var rearm <-chan time.Time
		if c.timer != nil {
			rearm = c.timer.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-events:
			if !ok {
				closed = true
				events = nil
				continue
			}
			c.handleDetection(ctx, d)

		case r := <-c.results:
			c.handleResult(r)

		case <-rearm:
			c.timer = nil
			c.setState(Idle, false)
		}
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap.State == Verifying.String() {
		return Verifying
	}
	return Idle
}

// Snapshot returns a copy of the controller status.
func (c *Controller) Snapshot() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.snap
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	return s
}

func (c *Controller) handleDetection(ctx context.Context, d Detection) {
	vp := d.Viewport
	if vp.IsZero() {
		vp = c.viewport
	}

	rect, visible := overlay.Project(d.Event, vp)
	c.deps.Sink.Overlay(rect, visible)
	if !visible {
		return
	}

	// Single flight: nothing is captured while a cycle is running or cooling down.
	if c.state != Idle {
		c.mu.Lock()
		c.snap.Dropped++
		c.mu.Unlock()
		return
	}

	frame, err := c.takeCapture(ctx)
	if err != nil {
		if !errors.Is(err, camera.ErrNoFrame) && !errors.Is(err, capture.ErrEmptySource) {
			log.Printf("scan: capture failed: %v", err)
		}
		return
	}

	c.cycle = uuid.New()
	c.started = c.clock.Now()
	if c.lastRect != nil {
		log.Printf("scan %s: capture started, overlap with previous capture %.2f",
			c.cycle, overlay.ComputeIoU(c.lastRect.Corners(), rect.Corners()))
	}
	c.lastRect = &rect

	c.setState(Verifying, false)
	c.mu.Lock()
	c.snap.Cycles++
	c.mu.Unlock()

	if c.deps.Messages != nil {
		c.deps.Sink.Status(c.deps.Messages.Verifying())
	}

	cycle, started := c.cycle, c.started
	go func() {
		out := c.deps.Recognizer.Submit(ctx, frame)
		// Buffered for exactly one in-flight cycle, never blocks.
		c.results <- result{cycle: cycle, outcome: out, latency: c.clock.Now().Sub(started)}
	}()
}

func (c *Controller) takeCapture(ctx context.Context) (*capture.Frame, error) {
	img, err := c.deps.Source.Frame(ctx)
	if err != nil {
		return nil, err
	}
	return capture.Encode(img, c.capture)
}

func (c *Controller) handleResult(r result) {
	out := r.outcome
	log.Printf("scan %s: %s %q in %s", r.cycle, out.Kind, sanitizeForLog(out.Name), r.latency.Round(time.Millisecond))
	if out.Err != nil {
		log.Printf("scan %s: recognition request failed: %v", r.cycle, out.Err)
	}

	if c.deps.Messages != nil {
		status, speech := c.deps.Messages.ForOutcome(out)
		c.deps.Sink.Status(status)
		if speech != "" {
			c.deps.Sink.Speak(speech)
		}
	}
	if out.Kind == backend.Recognized {
		c.deps.Sink.RefreshLog()
	}

	c.record(r)

	c.mu.Lock()
	c.snap.Last = &LastOutcome{
		CycleID: r.cycle.String(),
		Kind:    out.Kind.String(),
		Name:    out.Name,
		Latency: r.latency.Milliseconds(),
		At:      c.clock.Now(),
	}
	c.mu.Unlock()

	delay := c.cooldowns.For(out.Kind)
	if delay <= 0 {
		c.setState(Idle, false)
		return
	}
	c.stopTimer()
	c.timer = c.clock.NewTimer(delay)
	c.setState(Verifying, true)
}

// record writes the cycle to the journal in the background.
func (c *Controller) record(r result) {
	if c.deps.Journal == nil {
		return
	}

	entry := journal.Entry{
		ID:        uuid.New(),
		CycleID:   r.cycle,
		Outcome:   r.outcome.Kind.String(),
		Name:      r.outcome.Name,
		LatencyMS: r.latency.Milliseconds(),
		CreatedAt: c.clock.Now(),
	}
	if r.outcome.Err != nil {
		entry.Error = r.outcome.Err.Error()
	}

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if err := c.deps.Journal.Record(ctx, entry); err != nil {
			log.Printf("scan %s: journal write failed: %v", r.cycle, err)
		}
	}()
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) setState(s State, cooling bool) {
	c.state = s
	c.mu.Lock()
	c.snap.State = s.String()
	c.snap.Cooling = cooling
	c.mu.Unlock()
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
