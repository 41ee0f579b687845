package feedback

import (
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
)

// Messages renders status text and utterances for the operator's locale.
type Messages struct {
	phrases config.LocalePhrases
	now     func() time.Time
}

// NewMessages creates messages from locale phrases.
func NewMessages(p config.LocalePhrases) *Messages {
	return &Messages{phrases: p, now: time.Now}
}

// Verifying is the status shown while a capture is in flight.
func (m *Messages) Verifying() Status {
	return Status{Text: m.phrases.Verifying.Status, Tone: ToneVerifying, At: m.now()}
}

// ForOutcome returns the status and the utterance for an outcome.
// An empty utterance means nothing is spoken.
func (m *Messages) ForOutcome(o backend.Outcome) (Status, string) {
	var (
		p    config.Phrase
		tone Tone
	)
	switch o.Kind {
	case backend.Recognized:
		p, tone = m.phrases.Recognized, ToneSuccess
	case backend.AlreadyPresent:
		p, tone = m.phrases.AlreadyPresent, ToneDuplicate
	case backend.Unrecognized:
		p, tone = m.phrases.Unrecognized, ToneUnknown
	default:
		p, tone = m.phrases.Error, ToneError
	}

	status := Status{Text: p.Render(p.Status, o.Display), Tone: tone, At: m.now()}
	return status, p.Render(p.Speech, o.Name)
}
