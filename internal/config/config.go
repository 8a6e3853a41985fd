// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/voidaudio/internal/audio"
	"github.com/jmylchreest/voidaudio/internal/device"
)

// Default configuration values.
const (
	DefaultMasterVolume = audio.DefaultMasterVolume
	DefaultSampleRate   = device.DefaultSampleRate
	DefaultMusicFade    = Duration(audio.DefaultMusicFade)
	DefaultFadeStep     = Duration(audio.DefaultFadeStepInterval)
)

// Config represents the voidaudio configuration.
type Config struct {
	Audio AudioConfig `toml:"audio"`

	// Manifest is an optional YAML or TOML file listing more tracks.
	Manifest string `toml:"manifest,omitempty"`

	Tracks []TrackConfig `toml:"tracks"`
}

// AudioConfig holds manager and device settings.
type AudioConfig struct {
	MasterVolume float64  `toml:"master_volume"` // 0.0-1.0
	Muted        bool     `toml:"muted"`
	SampleRate   int      `toml:"sample_rate"`
	MusicFade    Duration `toml:"music_fade"` // e.g. "2s"
	FadeStep     Duration `toml:"fade_step"`  // ramp tick, e.g. "100ms"
	Watch        bool     `toml:"watch"`      // reload tracks when files change
}

// TrackConfig describes one track to preload.
type TrackConfig struct {
	ID     string   `toml:"id" yaml:"id" json:"id"`
	Source string   `toml:"source" yaml:"source" json:"source"`
	Volume *float64 `toml:"volume,omitempty" yaml:"volume,omitempty" json:"volume,omitempty"`
	Loop   bool     `toml:"loop" yaml:"loop" json:"loop"`
	Kind   string   `toml:"kind,omitempty" yaml:"kind,omitempty" json:"kind,omitempty"` // music, sfx
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			MasterVolume: DefaultMasterVolume,
			Muted:        false,
			SampleRate:   DefaultSampleRate,
			MusicFade:    DefaultMusicFade,
			FadeStep:     DefaultFadeStep,
			Watch:        false,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "voidaudio", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges and track definitions.
func (c *Config) Validate() error {
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return fmt.Errorf("master_volume must be between 0 and 1, got %v", c.Audio.MasterVolume)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("sample_rate must not be negative, got %d", c.Audio.SampleRate)
	}
	if c.Audio.MusicFade < 0 {
		return errors.New("music_fade must not be negative")
	}
	if c.Audio.FadeStep < 0 {
		return errors.New("fade_step must not be negative")
	}
	return validateTracks(c.Tracks)
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ManagerOptions returns the audio.Manager options for this configuration.
func (c *Config) ManagerOptions() []audio.Option {
	opts := []audio.Option{
		audio.WithMasterVolume(c.Audio.MasterVolume),
		audio.WithMuted(c.Audio.Muted),
		audio.WithMusicFade(c.Audio.MusicFade.Duration()),
	}
	if c.Audio.FadeStep > 0 {
		opts = append(opts, audio.WithFadeStepInterval(c.Audio.FadeStep.Duration()))
	}
	return opts
}

// AllTracks returns the inline tracks followed by the manifest's tracks.
func (c *Config) AllTracks() ([]TrackConfig, error) {
	tracks := append([]TrackConfig(nil), c.Tracks...)
	if c.Manifest != "" {
		more, err := LoadManifest(device.ExpandPath(c.Manifest))
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, more...)
	}
	if err := validateTracks(tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Spec converts a track definition for audio.Manager.PreloadTracks.
func (t TrackConfig) Spec() audio.TrackSpec {
	return audio.TrackSpec{
		ID:     t.ID,
		Source: t.Source,
		Options: audio.LoadOptions{
			Volume: t.Volume,
			Loop:   t.Loop,
			Kind:   audio.Kind(t.Kind),
		},
	}
}

// Specs converts track definitions for audio.Manager.PreloadTracks.
func Specs(tracks []TrackConfig) []audio.TrackSpec {
	specs := make([]audio.TrackSpec, 0, len(tracks))
	for _, t := range tracks {
		specs = append(specs, t.Spec())
	}
	return specs
}

// MusicFade returns the configured music fade as a time.Duration.
func (c *Config) MusicFade() time.Duration {
	return c.Audio.MusicFade.Duration()
}
