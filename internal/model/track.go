// Package model defines the track listing entry shared by the CLI formatters
// and the filter/sort logic.
package model

import (
	"errors"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/voidaudio/internal/config"
	"github.com/jmylchreest/voidaudio/internal/device"
)

// Kind names as written in config and manifests.
const (
	KindMusic = "music"
	KindSFX   = "sfx"
)

// Track is one configured track with the status of its source file.
type Track struct {
	ID     string  `json:"id" yaml:"id"`
	Source string  `json:"source" yaml:"source"`
	Path   string  `json:"path" yaml:"path"`
	Kind   string  `json:"kind" yaml:"kind"`
	Volume float64 `json:"volume" yaml:"volume"`
	Loop   bool    `json:"loop" yaml:"loop"`
	Exists bool    `json:"exists" yaml:"exists"`
	Size   uint64  `json:"size" yaml:"size"`
	Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewTrack resolves a track's source and stats the file.
func NewTrack(tc config.TrackConfig) Track {
	t := Track{
		ID:     tc.ID,
		Source: tc.Source,
		Path:   device.ResolvePath(tc.Source),
		Kind:   tc.Kind,
		Volume: 1,
		Loop:   tc.Loop,
	}
	if t.Kind == "" {
		t.Kind = KindSFX
	}
	if tc.Volume != nil {
		t.Volume = *tc.Volume
	}

	info, err := os.Stat(t.Path)
	switch {
	case err == nil:
		t.Exists = true
		t.Size = uint64(info.Size())
	case !errors.Is(err, os.ErrNotExist):
		t.Error = err.Error()
	}
	return t
}

// NewTracks builds listing entries for every track definition.
func NewTracks(tcs []config.TrackConfig) []Track {
	tracks := make([]Track, 0, len(tcs))
	for _, tc := range tcs {
		tracks = append(tracks, NewTrack(tc))
	}
	return tracks
}

// SizeLabel returns a human-readable size, or why there is none.
func (t *Track) SizeLabel() string {
	switch {
	case t.Error != "":
		return "error: " + t.Error
	case !t.Exists:
		return "missing"
	default:
		return humanize.Bytes(t.Size)
	}
}
