package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/adapter/input"
	"github.com/jmylchreest/voidaudio/internal/audio"
	"github.com/jmylchreest/voidaudio/internal/core"
)

var playOpts struct {
	fadeIn  time.Duration
	fadeOut time.Duration
	length  time.Duration
	restart bool
	watch   bool
	stdin   bool
}

var playCmd = &cobra.Command{
	Use:   "play <id|index>...",
	Short: "Play configured tracks",
	Long: `Preload the configured tracks and play the given ids together.

Each argument is a track id, its 1-based position in "voidaudio tracks", or
an unambiguous id prefix.

Playback continues until --for elapses or the process is interrupted. The
tracks are then stopped with --fade-out and the device is released.

Music tracks use the configured music fade unless --fade-in/--fade-out are
given.

Examples:
  # Play background music until Ctrl+C
  voidaudio play bg-music

  # Layer ambience and rain for 30 seconds with slow fades
  voidaudio play ambience rain --for 30s --fade-in 3s --fade-out 5s

  # Pick tracks with fuzzel
  voidaudio tracks -f dmenu | fuzzel -d | voidaudio play --stdin`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&playOpts.fadeIn, "fade-in", 0,
		"Fade-in duration (default: music fade for music tracks)")
	playCmd.Flags().DurationVar(&playOpts.fadeOut, "fade-out", 0,
		"Fade-out duration (default: music fade for music tracks)")
	playCmd.Flags().DurationVar(&playOpts.length, "for", 0,
		"Stop after this long (0 = until interrupted)")
	playCmd.Flags().BoolVar(&playOpts.restart, "restart", false,
		"Restart tracks from the beginning")
	playCmd.Flags().BoolVar(&playOpts.watch, "watch", false,
		"Reload tracks when their files change")
	playCmd.Flags().BoolVar(&playOpts.stdin, "stdin", false,
		"Read track ids from stdin (plain, dmenu or JSON)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if playOpts.stdin {
		ids, err := input.NewStdinReaderWithReader(cmd.InOrStdin()).ReadIDs()
		if err != nil {
			return err
		}
		args = append(args, ids...)
	}
	if len(args) == 0 {
		return fmt.Errorf("no tracks to play")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracks, err := configuredTracks()
	if err != nil {
		return err
	}
	ids, err := core.Resolve(tracks, args)
	if err != nil {
		return err
	}

	m, _, cleanup := newManager()
	defer cleanup()

	if err := preloadConfigured(ctx, m); err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}

	stopWatcher := startWatcher(ctx, m, playOpts.watch)
	defer stopWatcher()

	var longest time.Duration
	for _, id := range ids {
		info, _ := m.Track(id)
		fadeIn, fadeOut := trackFades(info, cfg.MusicFade())
		longest = max(longest, fadeOut)

		logger.Debug("playing track", "id", id, "fade_in", fadeIn)
		m.Play(id, audio.PlayOptions{FadeIn: fadeIn, Restart: playOpts.restart})
	}

	waitFor(ctx, playOpts.length)

	for _, id := range ids {
		info, _ := m.Track(id)
		_, fadeOut := trackFades(info, cfg.MusicFade())
		m.Stop(id, audio.StopOptions{FadeOut: fadeOut})
	}

	// Let the fade-outs finish; a second interrupt cuts them short.
	if longest > 0 {
		stop()
		fadeCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		waitFor(fadeCtx, longest)
	}
	return nil
}

// trackFades returns the fades for a track: explicit flags win, then the
// music fade for music tracks.
func trackFades(info audio.TrackInfo, musicFade time.Duration) (in, out time.Duration) {
	in, out = playOpts.fadeIn, playOpts.fadeOut
	if info.Kind == audio.KindMusic {
		if in == 0 {
			in = musicFade
		}
		if out == 0 {
			out = musicFade
		}
	}
	return in, out
}

// waitFor blocks until ctx is done or d elapses. d <= 0 waits for ctx only.
func waitFor(ctx context.Context, d time.Duration) {
	if d <= 0 {
		<-ctx.Done()
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
