// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Backend request constants
const (
	// DefaultBackendTimeout bounds a single recognition request
	DefaultBackendTimeout = 10 * time.Second

	// DefaultSnapshotTimeout bounds a single camera snapshot download
	DefaultSnapshotTimeout = 5 * time.Second

	// MaxErrorBodySize is the maximum number of bytes read from an error response
	MaxErrorBodySize = 1024
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for SSE listener channels
	EventChannelBuffer = 100

	// DetectionChannelBuffer is the buffer size of the detector ingest channel.
	// Kept small: events are dropped rather than queued behind a busy controller.
	DetectionChannelBuffer = 4
)

// Upload constants
const (
	// MaxFrameUploadSize is the maximum pushed frame body size in bytes (16MB)
	MaxFrameUploadSize = 16 << 20

	// MaxFrameDimension is the largest width or height accepted for a pushed frame
	MaxFrameDimension = 4096

	// MaxPushedFrameAge is how long a pushed frame stays usable for capture
	MaxPushedFrameAge = 2 * time.Second
)
