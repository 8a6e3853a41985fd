package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// manifest is the on-disk layout of a track manifest file.
type manifest struct {
	Tracks []TrackConfig `toml:"tracks" yaml:"tracks"`
}

// LoadManifest reads a track manifest. The format is chosen by extension:
// .yaml/.yml or .toml.
func LoadManifest(path string) ([]TrackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if err := validateTracks(m.Tracks); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m.Tracks, nil
}

func validateTracks(tracks []TrackConfig) error {
	seen := make(map[string]bool, len(tracks))
	for i, t := range tracks {
		if t.ID == "" {
			return fmt.Errorf("track %d: id is required", i)
		}
		if t.Source == "" {
			return fmt.Errorf("track %q: source is required", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("track %q: duplicate id", t.ID)
		}
		seen[t.ID] = true

		if t.Volume != nil && (*t.Volume < 0 || *t.Volume > 1) {
			return fmt.Errorf("track %q: volume must be between 0 and 1, got %v", t.ID, *t.Volume)
		}
		switch t.Kind {
		case "", "music", "sfx":
		default:
			return fmt.Errorf("track %q: unknown kind %q", t.ID, t.Kind)
		}
	}
	return nil
}
