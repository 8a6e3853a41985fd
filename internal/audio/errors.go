package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrack is returned when a track id or source is empty.
	ErrInvalidTrack = errors.New("track id and source are required")

	// ErrUnknownTrack is returned by operations that require a registered track.
	ErrUnknownTrack = errors.New("unknown track")

	// ErrDisposed is returned when the manager was disposed while a load was in flight.
	ErrDisposed = errors.New("manager disposed during load")
)

// LoadError reports a failed track load. The track is not registered.
type LoadError struct {
	ID     string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load track %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("load track %q from %s: %v", e.ID, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
