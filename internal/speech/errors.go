package speech

import "errors"

// Error kinds surfaced by the Speaker. Callers classify failures with
// errors.Is; the concrete cause is wrapped underneath.
var (
	// ErrInvalidArgument marks a malformed request (empty text, non-positive
	// speed, unknown voice). Rejected before touching cache or model.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrModelFailure marks a synthesis failure. Nothing is cached.
	ErrModelFailure = errors.New("synthesis failed")

	// ErrIOFailure marks a cache read or write failure. Never surfaced to
	// tool callers; logged and treated as a miss.
	ErrIOFailure = errors.New("cache io failure")

	// ErrDeviceFailure marks a playback failure. Reported as a warning; a
	// successful cache write is not reversed.
	ErrDeviceFailure = errors.New("audio device failure")
)
