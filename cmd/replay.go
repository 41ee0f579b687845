package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/camera"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/feedback"
	"github.com/kozaktomas/attendance-kiosk/internal/journal"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <frames-dir> <script.yaml>",
	Short: "Drive the scan controller from recorded frames",
	Long: `Replay a detection script against the recognition backend.
Frames are read from a directory of JPEG/PNG/BMP files in name order and
captured whenever the script reports a face, exactly as the kiosk would.

Script format:
  viewport: {width: 1280, height: 720}
  interval_ms: 100
  steps:
    - repeat: 5                 # no face
    - box: {x_center: 0.5, y_center: 0.45, width: 0.3, height: 0.4}
      score: 0.9
      repeat: 40`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Bool("no-cooldown", false, "Re-arm immediately after every outcome")
	replayCmd.Flags().Bool("verbose", false, "Print every status change")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	noCooldown := mustGetBool(cmd, "no-cooldown")
	verbose := mustGetBool(cmd, "verbose")

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	frames, err := camera.NewDirectory(args[0])
	if err != nil {
		return fmt.Errorf("opening frames: %w", err)
	}
	script, err := scan.LoadScript(args[1])
	if err != nil {
		return err
	}
	detections := script.Detections()

	fmt.Printf("Replaying %d detections over %d frames\n", len(detections), frames.Len())

	cooldowns := cooldownsFromConfig(&cfg.Cooldown)
	if noCooldown {
		cooldowns = scan.Cooldowns{}
	}

	recorder := &feedback.Recorder{}
	var sink feedback.Sink = recorder
	if verbose {
		sink = feedback.Fanout{recorder, feedback.LogSink{}}
	}

	results := journal.NewMemory()
	ctrl := scan.New(scan.Deps{
		Source:     frames,
		Recognizer: client,
		Sink:       sink,
		Messages:   feedback.NewMessages(cfg.LocalePhrases()),
		Journal:    results,
	}, scan.WithCooldowns(cooldowns))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	events := make(chan scan.Detection)
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx, events) }()

	bar := progressbar.NewOptions(len(detections),
		progressbar.OptionSetDescription("Replaying detections"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("events"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	if err := feedDetections(ctx, events, done, detections, script.Interval(), bar); err != nil {
		return fmt.Errorf("replay interrupted: %w", err)
	}

	printReplaySummary(ctrl.Snapshot(), results.All(), recorder)
	return nil
}

// feedDetections sends the detections one per interval, then closes events and
// waits for the controller. It stops early when ctx is cancelled or the
// controller exits.
func feedDetections(ctx context.Context, events chan<- scan.Detection, done <-chan error,
	detections []scan.Detection, interval time.Duration, bar *progressbar.ProgressBar,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for _, d := range detections {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			close(events)
			return <-done
		case err := <-done:
			return controllerExited(err)
		}
		select {
		case events <- d:
			_ = bar.Add(1)
		case <-ctx.Done():
			close(events)
			return <-done
		case err := <-done:
			return controllerExited(err)
		}
	}
	close(events)
	_ = bar.Finish()
	return <-done
}

func controllerExited(err error) error {
	if err == nil {
		return errors.New("scan controller stopped early")
	}
	return err
}

func printReplaySummary(status scan.Status, entries []journal.Entry, recorder *feedback.Recorder) {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Outcome]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	fmt.Printf("\nReplay summary\n")
	fmt.Printf("  Cycles:   %d\n", status.Cycles)
	fmt.Printf("  Dropped:  %d detections while busy\n", status.Dropped)
	for _, k := range kinds {
		fmt.Printf("  %-16s %d\n", k+":", counts[k])
	}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %s  %-16s %-24s %5dms %s\n", e.CreatedAt.Format("15:04:05.000"), e.Outcome, name, e.LatencyMS, e.Error)
	}
	fmt.Printf("  Spoken:   %d utterances\n", len(recorder.Speeches()))
}
