package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByID(t *testing.T) {
	tracks := testTracks()

	found := LookupByID(tracks, "rain")
	require.NotNil(t, found)
	assert.Equal(t, "ambience/rain.ogg", found.Source)

	assert.Nil(t, LookupByID(tracks, "thunder"))
}

func TestLookupByIndex(t *testing.T) {
	tracks := testTracks()

	tests := []struct {
		index    int
		expected string
	}{
		{1, "bg-music"},
		{4, "victory"},
		{0, ""},
		{5, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		found := LookupByIndex(tracks, tt.index)
		if tt.expected == "" {
			assert.Nil(t, found, "index %d", tt.index)
			continue
		}
		require.NotNil(t, found, "index %d", tt.index)
		assert.Equal(t, tt.expected, found.ID)
	}
}

func TestResolve(t *testing.T) {
	tracks := testTracks()

	got, err := Resolve(tracks, []string{"rain", "2", "vic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "click", "victory"}, got)
}

func TestResolve_Errors(t *testing.T) {
	tracks := testTracks()
	tracks = append(tracks, tracks[1])
	tracks[4].ID = "clack"

	tests := []struct {
		arg     string
		message string
	}{
		{"9", "index out of range"},
		{"thunder", "unknown track"},
		{"cl", "ambiguous track"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			_, err := Resolve(tracks, []string{tt.arg})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSearch(t *testing.T) {
	tracks := testTracks()

	assert.Len(t, Search(tracks, ""), 4)
	assert.Equal(t, []string{"rain"}, ids(Search(tracks, "AMBIENCE")))
	assert.Equal(t, []string{"bg-music", "click", "victory"}, ids(Search(tracks, "ic")))
	assert.Empty(t, Search(tracks, "thunder"))
}
