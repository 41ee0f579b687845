package feedback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
)

func testPhrases() config.LocalePhrases {
	return config.Load().Phrases.Locales["id-ID"]
}

func TestMessages_ForOutcome(t *testing.T) {
	m := NewMessages(testPhrases())

	tests := []struct {
		name       string
		outcome    backend.Outcome
		wantText   string
		wantTone   Tone
		wantSpeech string
	}{
		{
			name:       "recognized",
			outcome:    backend.Outcome{Kind: backend.Recognized, Name: "Budi", Display: "BUDI"},
			wantText:   "BUDI",
			wantTone:   ToneSuccess,
			wantSpeech: "Absensi berhasil. Terima kasih Budi",
		},
		{
			name:       "already present",
			outcome:    backend.Outcome{Kind: backend.AlreadyPresent, Name: "Budi", Display: "BUDI"},
			wantText:   "DONE",
			wantTone:   ToneDuplicate,
			wantSpeech: "Anda sudah absen hari ini.",
		},
		{
			name:       "unrecognized",
			outcome:    backend.Outcome{Kind: backend.Unrecognized},
			wantText:   "UNKNOWN",
			wantTone:   ToneUnknown,
			wantSpeech: "Wajah tidak dikenali.",
		},
		{
			name:       "transport error",
			outcome:    backend.Outcome{Kind: backend.TransportError, Err: errors.New("refused")},
			wantText:   "ERROR",
			wantTone:   ToneError,
			wantSpeech: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, speech := m.ForOutcome(tt.outcome)
			if status.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", status.Text, tt.wantText)
			}
			if status.Tone != tt.wantTone {
				t.Errorf("Tone = %q, want %q", status.Tone, tt.wantTone)
			}
			if speech != tt.wantSpeech {
				t.Errorf("speech = %q, want %q", speech, tt.wantSpeech)
			}
		})
	}
}

func TestMessages_Verifying(t *testing.T) {
	s := NewMessages(testPhrases()).Verifying()
	if s.Text != "Verifying..." || s.Tone != ToneVerifying {
		t.Errorf("unexpected verifying status %+v", s)
	}
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	f := Fanout{a, b}

	f.Status(Status{Text: "X"})
	f.Speak("hello")
	f.Overlay(overlay.Rect{Left: 1}, true)
	f.RefreshLog()

	for _, r := range []*Recorder{a, b} {
		if len(r.Statuses()) != 1 || len(r.Speeches()) != 1 || len(r.Overlays()) != 1 || r.Refreshes() != 1 {
			t.Errorf("expected every call forwarded, got %d/%d/%d/%d",
				len(r.Statuses()), len(r.Speeches()), len(r.Overlays()), r.Refreshes())
		}
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	ch := b.AddListener()

	if b.ListenerCount() != 1 {
		t.Fatalf("expected 1 listener, got %d", b.ListenerCount())
	}

	b.Status(Status{Text: "BUDI", Tone: ToneSuccess})
	b.Overlay(overlay.Rect{Width: 10}, true)
	b.Speak("halo")

	wantTypes := []string{EventStatus, EventOverlay, EventSpeech}
	for _, want := range wantTypes {
		select {
		case ev := <-ch:
			if ev.Type != want {
				t.Errorf("expected %s event, got %s", want, ev.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", want)
		}
	}

	b.RemoveListener(ch)
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after RemoveListener")
	}
	if b.ListenerCount() != 0 {
		t.Errorf("expected no listeners, got %d", b.ListenerCount())
	}
}

func TestBroadcaster_FullListenerDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	b.AddListener()

	done := make(chan struct{})
	go func() {
		for range 1000 {
			b.Speak("x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a full listener")
	}
}

// gatedFetcher returns the next canned list each call, blocking on gate when set.
type gatedFetcher struct {
	mu      sync.Mutex
	results [][]backend.LogEntry
	calls   int
	gate    chan struct{}
	err     error
}

func (f *gatedFetcher) TodayLog(ctx context.Context) ([]backend.LogEntry, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	i := min(f.calls, len(f.results)-1)
	f.calls++
	return f.results[i], nil
}

func TestLogView_RefreshTwiceShowsUnionWithoutDuplicates(t *testing.T) {
	budi := backend.LogEntry{ID: "1", Name: "Budi", Time: "08:00:00"}
	sari := backend.LogEntry{ID: "2", Name: "Sari", Time: "08:00:03"}

	fetcher := &gatedFetcher{
		results: [][]backend.LogEntry{
			{budi},
			{sari, budi, budi},
		},
		gate: make(chan struct{}),
	}

	var updates int
	var mu sync.Mutex
	view := NewLogView(fetcher, func([]backend.LogEntry) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	view.RefreshLog()
	view.RefreshLog()
	view.RefreshLog() // collapses with the previous trailing refresh

	close(fetcher.gate)
	view.Wait()

	entries := view.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 unique entries, got %d: %+v", len(entries), entries)
	}
	if entries[0] != sari || entries[1] != budi {
		t.Errorf("unexpected entries %+v", entries)
	}
	if view.Fetches() != 2 {
		t.Errorf("expected 2 fetches (one running + one trailing), got %d", view.Fetches())
	}
	mu.Lock()
	defer mu.Unlock()
	if updates != 2 {
		t.Errorf("expected 2 updates, got %d", updates)
	}
}

func TestLogView_FailureKeepsOldList(t *testing.T) {
	fetcher := &gatedFetcher{results: [][]backend.LogEntry{{{Name: "Budi", Time: "08:00:00"}}}}
	view := NewLogView(fetcher, nil)

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	fetcher.mu.Lock()
	fetcher.err = errors.New("backend down")
	fetcher.mu.Unlock()

	view.RefreshLog()
	view.Wait()

	if len(view.Entries()) != 1 {
		t.Errorf("expected old list kept, got %+v", view.Entries())
	}
}

func TestLogView_DedupeByNameAndTimeWithoutID(t *testing.T) {
	fetcher := &gatedFetcher{results: [][]backend.LogEntry{{
		{Name: "Budi", Time: "08:00:00"},
		{Name: "Budi", Time: "08:00:00"},
		{Name: "Budi", Time: "12:00:00"},
	}}}
	view := NewLogView(fetcher, nil)

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(view.Entries()) != 2 {
		t.Errorf("expected 2 entries, got %+v", view.Entries())
	}
}

func TestSpeaker_NewUtteranceCancelsPrevious(t *testing.T) {
	var mu sync.Mutex
	var spoken, cancelled []string
	started := make(chan string, 2)

	s := &Speaker{run: func(ctx context.Context, text string) error {
		mu.Lock()
		spoken = append(spoken, text)
		mu.Unlock()
		started <- text
		<-ctx.Done()
		mu.Lock()
		cancelled = append(cancelled, text)
		mu.Unlock()
		return ctx.Err()
	}}

	s.Speak("first")
	<-started
	s.Speak("second")
	<-started
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(spoken) != 2 {
		t.Fatalf("expected 2 utterances, got %v", spoken)
	}
	if len(cancelled) != 2 {
		t.Errorf("expected both utterances cut off, got %v", cancelled)
	}
}

func TestSpeaker_EmptyTextAndCommand(t *testing.T) {
	if NewSpeaker("   ") != nil {
		t.Error("expected nil speaker for empty command")
	}

	calls := 0
	s := &Speaker{run: func(context.Context, string) error {
		calls++
		return nil
	}}
	s.Speak("")
	s.Close()
	if calls != 0 {
		t.Errorf("expected no command for empty text, got %d", calls)
	}
}
