package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/voidaudio/internal/audio"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.7, cfg.Audio.MasterVolume)
	assert.False(t, cfg.Audio.Muted)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 2*time.Second, cfg.MusicFade())
	assert.Equal(t, 100*time.Millisecond, cfg.Audio.FadeStep.Duration())
	assert.False(t, cfg.Audio.Watch)
	assert.Empty(t, cfg.Tracks)
	assert.Empty(t, cfg.Manifest)
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Audio, cfg.Audio)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
manifest = "~/sounds/tracks.yaml"

[audio]
master_volume = 0.5
muted = true
sample_rate = 48000
music_fade = "1500ms"
fade_step = "50ms"
watch = true

[[tracks]]
id = "bg-music"
source = "sounds/bg.ogg"
volume = 0.4
loop = true
kind = "music"

[[tracks]]
id = "click"
source = "sounds/click.wav"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Audio.MasterVolume)
	assert.True(t, cfg.Audio.Muted)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 1500*time.Millisecond, cfg.MusicFade())
	assert.Equal(t, 50*time.Millisecond, cfg.Audio.FadeStep.Duration())
	assert.True(t, cfg.Audio.Watch)
	assert.Equal(t, "~/sounds/tracks.yaml", cfg.Manifest)

	require.Len(t, cfg.Tracks, 2)
	assert.Equal(t, "bg-music", cfg.Tracks[0].ID)
	assert.Equal(t, "sounds/bg.ogg", cfg.Tracks[0].Source)
	require.NotNil(t, cfg.Tracks[0].Volume)
	assert.Equal(t, 0.4, *cfg.Tracks[0].Volume)
	assert.True(t, cfg.Tracks[0].Loop)
	assert.Equal(t, "music", cfg.Tracks[0].Kind)
	assert.Nil(t, cfg.Tracks[1].Volume)
	assert.False(t, cfg.Tracks[1].Loop)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[audio]
master_volume = 0.25
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Audio.MasterVolume)

	// Unchanged fields keep defaults
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 2*time.Second, cfg.MusicFade())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"master_volume_too_high", "[audio]\nmaster_volume = 1.5\n"},
		{"master_volume_negative", "[audio]\nmaster_volume = -0.1\n"},
		{"bad_duration", "[audio]\nmusic_fade = \"soon\"\n"},
		{"track_missing_source", "[[tracks]]\nid = \"a\"\n"},
		{"track_missing_id", "[[tracks]]\nsource = \"a.wav\"\n"},
		{"track_bad_kind", "[[tracks]]\nid = \"a\"\nsource = \"a.wav\"\nkind = \"voice\"\n"},
		{"track_bad_volume", "[[tracks]]\nid = \"a\"\nsource = \"a.wav\"\nvolume = 2.0\n"},
		{"duplicate_ids", "[[tracks]]\nid = \"a\"\nsource = \"a.wav\"\n[[tracks]]\nid = \"a\"\nsource = \"b.wav\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Audio.MasterVolume = 0.3
	cfg.Audio.MusicFade = Duration(3 * time.Second)
	cfg.Tracks = []TrackConfig{
		{ID: "bg", Source: "bg.ogg", Volume: audio.Gain(0.5), Loop: true, Kind: "music"},
	}

	err := cfg.Save(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, loaded.Audio.MasterVolume)
	assert.Equal(t, 3*time.Second, loaded.MusicFade())
	require.Len(t, loaded.Tracks, 1)
	assert.Equal(t, cfg.Tracks[0].ID, loaded.Tracks[0].ID)
	assert.Equal(t, 0.5, *loaded.Tracks[0].Volume)
	assert.True(t, loaded.Tracks[0].Loop)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/voidaudio/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	path := ConfigPath()
	assert.Contains(t, path, "voidaudio/config.toml")
}

func TestConfig_AllTracksWithManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "tracks.yaml")
	content := `
tracks:
  - id: victory
    source: sounds/victory.mp3
    volume: 0.8
    kind: sfx
  - id: ambience
    source: sounds/ambience.ogg
    loop: true
    kind: music
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(content), 0644))

	cfg := DefaultConfig()
	cfg.Manifest = manifestPath
	cfg.Tracks = []TrackConfig{{ID: "click", Source: "click.wav"}}

	tracks, err := cfg.AllTracks()
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "click", tracks[0].ID)
	assert.Equal(t, "victory", tracks[1].ID)
	assert.Equal(t, 0.8, *tracks[1].Volume)
	assert.True(t, tracks[2].Loop)

	// Duplicates across config and manifest are rejected.
	cfg.Tracks = append(cfg.Tracks, TrackConfig{ID: "victory", Source: "other.wav"})
	_, err = cfg.AllTracks()
	assert.Error(t, err)
}

func TestLoadManifest_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.toml")
	content := `
[[tracks]]
id = "bg"
source = "bg.ogg"
loop = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tracks, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "bg", tracks[0].ID)
	assert.True(t, tracks[0].Loop)
}

func TestLoadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	jsonPath := filepath.Join(dir, "tracks.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0644))
	_, err = LoadManifest(jsonPath)
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("tracks: ["), 0644))
	_, err = LoadManifest(badPath)
	assert.Error(t, err)
}

func TestTrackConfig_Spec(t *testing.T) {
	tc := TrackConfig{ID: "bg", Source: "bg.ogg", Volume: audio.Gain(0.5), Loop: true, Kind: "music"}

	spec := tc.Spec()
	assert.Equal(t, "bg", spec.ID)
	assert.Equal(t, "bg.ogg", spec.Source)
	assert.Equal(t, 0.5, *spec.Options.Volume)
	assert.True(t, spec.Options.Loop)
	assert.Equal(t, audio.KindMusic, spec.Options.Kind)

	assert.Len(t, Specs([]TrackConfig{tc, {ID: "x", Source: "x.wav"}}), 2)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in       string
		expected time.Duration
		wantErr  bool
	}{
		{"2s", 2 * time.Second, false},
		{"150ms", 150 * time.Millisecond, false},
		{"1500", 1500 * time.Millisecond, false},
		{"1m30s", 90 * time.Second, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration())
		})
	}
}

func TestManagerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.MasterVolume = 0.4
	cfg.Audio.Muted = true

	m := audio.NewManager(nil, cfg.ManagerOptions()...)
	assert.Equal(t, 0.4, m.MasterVolume())
	assert.True(t, m.Muted())
}
