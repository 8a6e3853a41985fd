// Package main provides the CLI entrypoint for voidaudio.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/audio"
	"github.com/jmylchreest/voidaudio/internal/config"
	"github.com/jmylchreest/voidaudio/internal/device"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		manifest   string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "voidaudio",
	Short: "Track-based audio player and mixer",
	Long: `voidaudio plays named audio tracks with per-track and master volume,
global mute, and fade-in/fade-out ramps.

Tracks are declared in the config file or in a YAML/TOML manifest and are
addressed by id. Running voidaudio without a subcommand launches the mixer.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Config init must work even when the existing file is broken.
		if cmd.Annotations["skipConfig"] == "true" {
			cfg = config.DefaultConfig()
			return nil
		}

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.manifest != "" {
			cfg.Manifest = globalOpts.manifest
		}
		return nil
	},
	// Default to the mixer when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMixer(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/voidaudio/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.manifest, "manifest", "",
		"Path to a YAML or TOML track manifest (overrides config)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newManager opens the speaker backend and builds a manager from config.
// The returned cleanup disposes the manager and closes the device.
func newManager() (*audio.Manager, *device.SpeakerBackend, func()) {
	backend := device.NewSpeakerBackend(cfg.Audio.SampleRate, logger)
	opts := append(cfg.ManagerOptions(), audio.WithLogger(logger))
	m := audio.NewManager(backend, opts...)

	return m, backend, func() {
		m.Dispose()
		backend.Close()
	}
}

// preloadConfigured loads every track from the config and manifest.
func preloadConfigured(ctx context.Context, m *audio.Manager) error {
	tracks, err := cfg.AllTracks()
	if err != nil {
		return err
	}
	logger.Debug("preloading tracks", "count", len(tracks))
	return m.PreloadTracks(ctx, config.Specs(tracks))
}

// startWatcher starts hot reload when requested by flag or config.
// The returned stop func is always safe to call.
func startWatcher(ctx context.Context, m *audio.Manager, flag bool) func() {
	if !flag && !cfg.Audio.Watch {
		return func() {}
	}

	w := audio.NewWatcher(m, logger)
	if err := w.Start(ctx); err != nil {
		logger.Warn("failed to start audio watcher", "error", err)
		return func() {}
	}
	return w.Stop
}
