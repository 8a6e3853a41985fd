package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// LookupByID finds a track by its id.
// Returns nil if not found.
func LookupByID(tracks []model.Track, id string) *model.Track {
	for i := range tracks {
		if tracks[i].ID == id {
			return &tracks[i]
		}
	}
	return nil
}

// LookupByIndex finds a track by its index (1-based, as listed).
// Returns nil if index is out of bounds.
func LookupByIndex(tracks []model.Track, index int) *model.Track {
	// Convert to 0-based
	idx := index - 1
	if idx < 0 || idx >= len(tracks) {
		return nil
	}
	return &tracks[idx]
}

// Resolve maps command line arguments to track ids. An argument is an exact
// id, a 1-based listing index, or an unambiguous id prefix, tried in that
// order.
func Resolve(tracks []model.Track, args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		t, err := resolveOne(tracks, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func resolveOne(tracks []model.Track, arg string) (*model.Track, error) {
	if t := LookupByID(tracks, arg); t != nil {
		return t, nil
	}

	if idx, err := strconv.Atoi(arg); err == nil {
		if t := LookupByIndex(tracks, idx); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("track index out of range: %d (have %d tracks)", idx, len(tracks))
	}

	var match *model.Track
	for i := range tracks {
		if !strings.HasPrefix(tracks[i].ID, arg) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous track %q: matches %s and %s", arg, match.ID, tracks[i].ID)
		}
		match = &tracks[i]
	}
	if match == nil {
		return nil, fmt.Errorf("unknown track: %s", arg)
	}
	return match, nil
}

// Search finds tracks whose id or source contains term.
// Case-insensitive substring match.
func Search(tracks []model.Track, term string) []model.Track {
	if term == "" {
		return tracks
	}

	term = strings.ToLower(term)
	var result []model.Track

	for _, t := range tracks {
		if strings.Contains(strings.ToLower(t.ID), term) ||
			strings.Contains(strings.ToLower(t.Source), term) {
			result = append(result, t)
		}
	}

	return result
}
