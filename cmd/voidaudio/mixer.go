package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/tui"
)

var mixerOpts struct {
	watch bool
}

var mixerCmd = &cobra.Command{
	Use:   "mixer",
	Short: "Launch the interactive mixer",
	Long: `Launch the terminal mixer over every configured track.

Key bindings:
  j/k, ↑/↓    Navigate tracks
  space       Play/stop (music tracks fade)
  p           Pause/resume
  r           Restart from the beginning
  [ / ]       Track volume down/up
  - / +       Master volume down/up
  m           Mute/unmute
  ?           Show help
  q           Quit

Levels start from the config on every launch and are not saved.`,
	Args: cobra.NoArgs,
	RunE: runMixer,
}

func init() {
	rootCmd.AddCommand(mixerCmd)

	mixerCmd.Flags().BoolVar(&mixerOpts.watch, "watch", false,
		"Reload tracks when their files change")
}

func runMixer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, _, cleanup := newManager()
	defer cleanup()

	if err := preloadConfigured(ctx, m); err != nil {
		// Keep going with whatever loaded; the mixer shows what is available.
		logger.Warn("some tracks failed to load", "error", err)
	}

	stopWatcher := startWatcher(ctx, m, mixerOpts.watch)
	defer stopWatcher()

	if err := tui.Run(m); err != nil {
		return fmt.Errorf("mixer: %w", err)
	}
	return nil
}
