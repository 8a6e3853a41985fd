package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/voidaudio/internal/model"
)

func testTracks() []model.Track {
	return []model.Track{
		{ID: "bg-music", Source: "sounds/bg.ogg", Kind: "music", Volume: 0.4, Loop: true, Exists: true, Size: 3_000_000},
		{ID: "click", Source: "sounds/click.wav", Kind: "sfx", Volume: 1, Exists: true, Size: 20_000},
		{ID: "rain", Source: "ambience/rain.ogg", Kind: "music", Volume: 0.8, Loop: true},
		{ID: "victory", Source: "sounds/victory.mp3", Kind: "sfx", Volume: 0.6, Exists: true, Size: 500_000},
	}
}

func ids(tracks []model.Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter_Empty(t *testing.T) {
	result := Filter(nil, FilterOptions{})
	assert.Len(t, result, 0)
}

func TestFilter_NoFilters(t *testing.T) {
	result := Filter(testTracks(), FilterOptions{})
	assert.Len(t, result, 4)
}

func TestFilter_ByKind(t *testing.T) {
	result := Filter(testTracks(), FilterOptions{Kind: "music"})
	assert.Equal(t, []string{"bg-music", "rain"}, ids(result))
}

func TestFilter_MissingOnly(t *testing.T) {
	result := Filter(testTracks(), FilterOptions{MissingOnly: true})
	assert.Equal(t, []string{"rain"}, ids(result))
}

func TestFilter_Limit(t *testing.T) {
	result := Filter(testTracks(), FilterOptions{Limit: 2})
	assert.Equal(t, []string{"bg-music", "click"}, ids(result))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"", "", false},
		{"music", "music", false},
		{"BGM", "music", false},
		{"sfx", "sfx", false},
		{"sound", "sfx", false},
		{"voice", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			kind, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr     string
		expected []string
	}{
		{"", []string{"bg-music", "click", "rain", "victory"}},
		{"kind=music", []string{"bg-music", "rain"}},
		{"kind!=bgm", []string{"click", "victory"}},
		{"id~IC", []string{"bg-music", "click", "victory"}},
		{`source~=\.ogg$`, []string{"bg-music", "rain"}},
		{"volume<0.5", []string{"bg-music"}},
		{"volume>=0.8", []string{"click", "rain"}},
		{"size>1MB", []string{"bg-music"}},
		{"size<=500kB", []string{"click", "victory"}},
		{"loop=true", []string{"bg-music", "rain"}},
		{"exists=false", []string{"rain"}},
		{"kind=sfx,volume<1", []string{"victory"}},
		{"path~nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := ParseFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(FilterWithExpr(testTracks(), expr)))
		})
	}
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []string{
		"kind",          // missing operator
		"color=red",     // unknown field
		"kind=voice",    // invalid kind
		"volume>loud",   // invalid number
		"size>lots",     // invalid size
		"id~=(unclosed", // invalid regex
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFilter(expr)
			assert.Error(t, err)
		})
	}
}

func TestFilterWithExpr_Nil(t *testing.T) {
	tracks := testTracks()
	assert.Equal(t, tracks, FilterWithExpr(tracks, nil))
}
