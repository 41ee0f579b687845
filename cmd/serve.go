package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/camera"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/feedback"
	"github.com/kozaktomas/attendance-kiosk/internal/overlay"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
	"github.com/kozaktomas/attendance-kiosk/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the attendance kiosk",
	Long: `Run the attendance kiosk.
Serves the kiosk screen and the local API the face detector posts to, runs
the scan controller and talks to the recognition backend.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default KIOSK_PORT or 8090)")
	serveCmd.Flags().String("host", "", "Host to bind to (default KIOSK_HOST or 127.0.0.1)")
}

// resolveServeHostPort lets flags override the environment.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Kiosk.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Kiosk.Host = host
	}
}

// newFrameSource picks the camera: a snapshot URL when configured, otherwise
// frames pushed by the kiosk page.
func newFrameSource(cfg *config.CameraConfig) (camera.FrameSource, *camera.Latest, error) {
	if cfg.SnapshotURL != "" {
		snap, err := camera.NewSnapshot(cfg.SnapshotURL, &http.Client{Timeout: constants.DefaultSnapshotTimeout})
		if err != nil {
			return nil, nil, fmt.Errorf("creating snapshot camera: %w", err)
		}
		fmt.Printf("Using camera snapshots from %s\n", cfg.SnapshotURL)
		return snap, nil, nil
	}
	latest := camera.NewLatest(constants.MaxPushedFrameAge)
	fmt.Printf("Using frames pushed by the kiosk page\n")
	return latest, latest, nil
}

// loadTodayLog renders the initial list. A failure leaves the list empty.
func loadTodayLog(ctx context.Context, view *feedback.LogView) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultBackendTimeout)
	defer cancel()
	if err := view.Load(ctx); err != nil {
		fmt.Printf("Warning: failed to load today's log: %v\n", err)
		return
	}
	fmt.Printf("Loaded %d check-ins for today\n", len(view.Entries()))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	source, latest, err := newFrameSource(&cfg.Camera)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openJournal(ctx, &cfg.Journal)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	} else {
		fmt.Printf("Journal disabled\n")
	}

	broadcaster := feedback.NewBroadcaster()
	logView := feedback.NewLogView(client, func(entries []backend.LogEntry) {
		broadcaster.LogUpdated(entries)
	})
	loadTodayLog(ctx, logView)

	sinks := feedback.Fanout{broadcaster, feedback.LogSink{}, logView}
	speaker := feedback.NewSpeaker(cfg.Speech.Command)
	if speaker != nil {
		sinks = append(sinks, speaker)
		defer speaker.Close()
	}

	deps := scan.Deps{
		Source:     source,
		Recognizer: client,
		Sink:       sinks,
		Messages:   feedback.NewMessages(cfg.LocalePhrases()),
	}
	if store != nil {
		deps.Journal = store
	}
	ctrl := scan.New(deps,
		scan.WithCooldowns(cooldownsFromConfig(&cfg.Cooldown)),
		scan.WithViewport(overlay.Size{
			Width:  float64(cfg.Kiosk.ViewportWidth),
			Height: float64(cfg.Kiosk.ViewportHeight),
		}),
	)

	events := make(chan scan.Detection, constants.DetectionChannelBuffer)
	server := web.NewServer(cfg, web.Deps{
		Detections:  events,
		Frames:      latest,
		Status:      ctrl,
		Log:         logView,
		Broadcaster: broadcaster,
	})

	ctrlDone := make(chan error, 1)
	go func() { ctrlDone <- ctrl.Run(ctx, events) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting attendance kiosk on http://%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		cancel()
		<-ctrlDone
		return fmt.Errorf("starting server: %w", err)
	}

	<-ctrlDone
	logView.Wait()
	return nil
}
