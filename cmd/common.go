package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/attendance-kiosk/internal/backend"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/journal"
	"github.com/kozaktomas/attendance-kiosk/internal/journal/mariadb"
	"github.com/kozaktomas/attendance-kiosk/internal/journal/postgres"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
)

// newBackendClient creates the recognition backend client from config.
func newBackendClient(cfg *config.Config) (*backend.Client, error) {
	if cfg.Backend.URL == "" {
		return nil, errors.New("BACKEND_URL environment variable is required")
	}

	client, err := backend.New(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLanguage(cfg.Kiosk.Locale),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	if err := client.SetCaptureDir(captureDir); err != nil {
		return nil, fmt.Errorf("setting capture dir: %w", err)
	}
	return client, nil
}

// openJournal opens the configured journal backend. Returns nil, nil when
// no journal is configured.
func openJournal(ctx context.Context, cfg *config.JournalConfig) (journal.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		fmt.Printf("Connecting to PostgreSQL journal...\n")
		repo, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("opening PostgreSQL journal: %w", err)
		}
		return repo, nil
	case cfg.MariaDBDSN != "":
		fmt.Printf("Connecting to MariaDB journal...\n")
		repo, err := mariadb.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("opening MariaDB journal: %w", err)
		}
		return repo, nil
	default:
		return nil, nil
	}
}

// cooldownsFromConfig converts configured re-arm delays.
func cooldownsFromConfig(cfg *config.CooldownConfig) scan.Cooldowns {
	return scan.Cooldowns{
		Recognized:     cfg.Recognized,
		AlreadyPresent: cfg.AlreadyPresent,
		Unrecognized:   cfg.Unrecognized,
		TransportError: cfg.TransportError,
	}
}
