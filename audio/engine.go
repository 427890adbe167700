// Package audio owns the single native playback handle
package audio

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNothingLoaded     = errors.New("nothing loaded")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrHandleClosed      = errors.New("handle closed")
	ErrNoDevice          = errors.New("audio device not initialized")
)

// Engine opens decoded streams ready for output
type Engine interface {
	// Open decodes the clip at uri and returns an unstarted handle
	Open(uri string) (Handle, error)
}

// Handle is one open native playback resource
type Handle interface {
	// Start begins output; onEnd runs once, on its own goroutine, at natural end-of-stream
	// onEnd never runs for a handle that was closed first
	Start(onEnd func()) error
	Pause() error
	Resume() error
	// Close releases the resource; idempotent
	Close() error
}

// PlaybackError reports an engine failure for one operation
type PlaybackError struct {
	Op  string
	URI string
	Err error
}

func (e *PlaybackError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("playback %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("playback %s %s: %v", e.Op, e.URI, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
