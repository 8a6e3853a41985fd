package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/voidaudio/internal/model"
)

func TestSort_Empty(t *testing.T) {
	var tracks []model.Track
	Sort(tracks, DefaultSortOptions())
	assert.Len(t, tracks, 0)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		opts     SortOptions
		expected []string
	}{
		{"id asc", SortOptions{Field: SortByID, Order: SortAsc}, []string{"bg-music", "click", "rain", "victory"}},
		{"id desc", SortOptions{Field: SortByID, Order: SortDesc}, []string{"victory", "rain", "click", "bg-music"}},
		{"kind asc keeps ties stable", SortOptions{Field: SortByKind, Order: SortAsc}, []string{"bg-music", "rain", "click", "victory"}},
		{"source asc", SortOptions{Field: SortBySource, Order: SortAsc}, []string{"rain", "bg-music", "click", "victory"}},
		{"size desc", SortOptions{Field: SortBySize, Order: SortDesc}, []string{"bg-music", "victory", "click", "rain"}},
		{"volume asc", SortOptions{Field: SortByVolume, Order: SortAsc}, []string{"bg-music", "victory", "rain", "click"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := testTracks()
			Sort(tracks, tt.opts)
			assert.Equal(t, tt.expected, ids(tracks))
		})
	}
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected SortField
	}{
		{"id", SortByID},
		{"kind", SortByKind},
		{"type", SortByKind},
		{"source", SortBySource},
		{"size", SortBySize},
		{"VOLUME", SortByVolume},
		{"unknown", SortByID},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSortField(tt.input))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder("D"))
	assert.Equal(t, SortAsc, ParseSortOrder("sideways"))
}
