package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
)

// Snapshot fetches a still from an IP camera's snapshot endpoint on every call.
type Snapshot struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
}

// NewSnapshot creates a snapshot source for the given URL.
func NewSnapshot(url string, httpClient *http.Client) (*Snapshot, error) {
	if url == "" {
		return nil, errors.New("snapshot URL is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Snapshot{url: url, httpClient: httpClient, timeout: constants.DefaultSnapshotTimeout}, nil
}

// Frame downloads and decodes the current still.
func (s *Snapshot) Frame(ctx context.Context) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := s.httpClient.Do(req) //nolint:gosec // URL comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("could not fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, constants.MaxErrorBodySize))
		return nil, fmt.Errorf("snapshot failed with status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return img, nil
}
