// Package device defines the playable audio resource capability the track
// manager drives, and provides a speaker-backed implementation using beep.
package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNotLoaded is returned when playback is requested before Load succeeded.
	ErrNotLoaded = errors.New("resource not loaded")

	// ErrClosed is returned by operations on a closed resource.
	ErrClosed = errors.New("resource closed")
)

// Resource is a single playable audio stream bound to one source.
//
// Volume, loop and mute state may be set before Load; they take effect once
// the resource starts producing audio.
type Resource interface {
	// Load buffers the source until it can play through without stalling.
	Load(ctx context.Context) error

	// Play begins playback from the current position. A resource may reject
	// the request, for example when the output device is unavailable.
	Play() error

	// Pause halts playback, keeping the current position.
	Pause()

	// Seek moves the playback position.
	Seek(pos time.Duration) error

	// Position returns the current playback position.
	Position() time.Duration

	// Length returns the decoded duration, or 0 before Load.
	Length() time.Duration

	Volume() float64
	SetVolume(v float64)

	Loop() bool
	SetLoop(loop bool)

	Muted() bool
	SetMuted(muted bool)

	// Close releases the resource. Further calls are no-ops or return ErrClosed.
	Close() error
}

// Backend opens resources for source locators.
type Backend interface {
	Open(source string) (Resource, error)
}

// Invalidator is implemented by backends that cache decoded sources.
type Invalidator interface {
	Invalidate(source string)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ResolvePath expands ~ and returns a clean absolute path when possible.
func ResolvePath(path string) string {
	p := ExpandPath(path)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}
