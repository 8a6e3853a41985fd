package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/audio"
)

// progressPollInterval is how often play-file checks for the end of a track.
const progressPollInterval = 100 * time.Millisecond

var playFileOpts struct {
	loop   bool
	volume float64
}

var playFileCmd = &cobra.Command{
	Use:   "play-file <path>",
	Short: "Play a single audio file",
	Long: `Load an audio file that is not in the manifest and play it to the end.

Supported formats: wav, ogg, mp3, flac. With --loop the file repeats until
the process is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayFile,
}

func init() {
	rootCmd.AddCommand(playFileCmd)

	playFileCmd.Flags().BoolVar(&playFileOpts.loop, "loop", false,
		"Repeat until interrupted")
	playFileCmd.Flags().Float64Var(&playFileOpts.volume, "volume", 1,
		"Track volume (0.0-1.0)")
}

func runPlayFile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := newTrackID()
	if err != nil {
		return err
	}

	m, _, cleanup := newManager()
	defer cleanup()

	err = m.LoadTrack(ctx, id, args[0], audio.LoadOptions{
		Volume: audio.Gain(playFileOpts.volume),
		Loop:   playFileOpts.loop,
	})
	if err != nil {
		return err
	}

	logger.Debug("playing file", "id", id, "path", args[0])
	m.PlaySound(id)

	waitForEnd(ctx, m, id)
	m.StopSound(id)
	return nil
}

// newTrackID returns a unique id for an ad-hoc track.
func newTrackID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate track id: %w", err)
	}
	return id.String(), nil
}

// waitForEnd blocks until the track reaches its end or ctx is done.
// Looping tracks never end on their own.
func waitForEnd(ctx context.Context, m *audio.Manager, id string) {
	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, ok := m.Track(id)
		if !ok || finished(info) {
			return
		}
	}
}

// finished reports whether a non-looping track has played to its end.
func finished(info audio.TrackInfo) bool {
	return !info.Loop && info.Length > 0 && info.Position >= info.Length
}
