package mariadb

import (
	"context"
	"strings"
	"testing"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
)

func TestNormalizeDSN(t *testing.T) {
	got, err := normalizeDSN("kiosk:secret@tcp(localhost:3306)/kiosk")
	if err != nil {
		t.Fatalf("normalizeDSN failed: %v", err)
	}
	if !strings.Contains(got, "parseTime=true") {
		t.Errorf("expected parseTime=true in %q", got)
	}
	if !strings.HasPrefix(got, "kiosk:secret@tcp(localhost:3306)/kiosk") {
		t.Errorf("expected credentials and address kept, got %q", got)
	}
}

func TestNormalizeDSN_Invalid(t *testing.T) {
	if _, err := normalizeDSN("kiosk@tcp(localhost:3306"); err == nil {
		t.Error("expected error for malformed DSN")
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), &config.JournalConfig{}); err == nil {
		t.Error("expected error for empty DSN")
	}
}

func TestOpenDB_PoolSizesFromConfig(t *testing.T) {
	db, err := openDB(&config.JournalConfig{
		MariaDBDSN:   "kiosk:secret@tcp(localhost:3306)/kiosk",
		MaxOpenConns: 7,
		MaxIdleConns: 3,
	})
	if err != nil {
		t.Fatalf("openDB failed: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Errorf("MaxOpenConnections = %d, want 7", got)
	}
}
