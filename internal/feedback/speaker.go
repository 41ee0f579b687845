package feedback

import (
	"context"
	"errors"
	"log"
	"os/exec"
	"strings"
	"sync"
)

// Speaker speaks utterances through an external TTS command.
// A new utterance cuts off the one still playing.
type Speaker struct {
	Nop

	run    func(ctx context.Context, text string) error
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSpeaker creates a speaker for a command line such as "espeak-ng -v id".
// The utterance is passed as the last argument. Returns nil for an empty command.
func NewSpeaker(command string) *Speaker {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil
	}
	return &Speaker{
		run: func(ctx context.Context, text string) error {
			cmdArgs := append(append([]string{}, args[1:]...), text)
			return exec.CommandContext(ctx, args[0], cmdArgs...).Run() //nolint:gosec // command comes from operator configuration
		},
	}
}

// Speak starts the utterance and returns immediately.
func (s *Speaker) Speak(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.run(ctx, text); err != nil && !errors.Is(ctx.Err(), context.Canceled) {
			log.Printf("speech failed: %v", err)
		}
	}()
}

// Close stops the current utterance and waits for it to exit.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
