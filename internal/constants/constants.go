// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Cooldown constants
const (
	// CooldownRecognized keeps the same still-framed person from re-triggering
	// and lets the confirmation utterance finish
	CooldownRecognized = 3000 * time.Millisecond

	// CooldownAlreadyPresent is the re-arm delay after a duplicate check-in
	CooldownAlreadyPresent = 2000 * time.Millisecond

	// CooldownUnrecognized is the re-arm delay after a face without a match
	CooldownUnrecognized = 1200 * time.Millisecond

	// CooldownTransportError re-arms immediately, nothing was confirmed to the user
	CooldownTransportError = 0
)

// Capture constants
const (
	// VerificationWidth is the fixed canvas width for verification captures
	VerificationWidth = 640

	// VerificationHeight is the fixed canvas height for verification captures
	VerificationHeight = 480

	// VerificationQuality is the JPEG quality for verification captures
	VerificationQuality = 70

	// EnrollmentQuality is the JPEG quality for native-resolution enrollment captures
	EnrollmentQuality = 90
)

// Viewport constants
const (
	// DefaultViewportWidth is used when the detector does not report the rendered video size
	DefaultViewportWidth = 1280

	// DefaultViewportHeight is used when the detector does not report the rendered video size
	DefaultViewportHeight = 720
)
