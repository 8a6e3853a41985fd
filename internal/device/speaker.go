package device

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/patrickmn/go-cache"
)

// DefaultSampleRate is the speaker sample rate used when none is configured.
const DefaultSampleRate = 44100

// SpeakerBackend plays resources through the system speaker.
// All resources share one mixer; the speaker is initialized on first load.
type SpeakerBackend struct {
	mu     sync.Mutex
	logger *slog.Logger

	initialized bool

	sampleRate beep.SampleRate
	mixer      *beep.Mixer

	cache *cache.Cache // decoded buffers by resolved path
}

// NewSpeakerBackend creates a speaker backend. A sampleRate <= 0 selects
// DefaultSampleRate.
func NewSpeakerBackend(sampleRate int, logger *slog.Logger) *SpeakerBackend {
	if logger == nil {
		logger = slog.Default()
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	return &SpeakerBackend{
		logger:     logger,
		sampleRate: beep.SampleRate(sampleRate),
		mixer:      &beep.Mixer{},
		cache:      cache.New(cache.NoExpiration, 0),
	}
}

// Open returns an unloaded resource for the given file path.
func (b *SpeakerBackend) Open(source string) (Resource, error) {
	path := ResolvePath(source)
	if !isSupported(path) {
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	return &speakerResource{
		backend: b,
		path:    path,
		volume:  1,
	}, nil
}

// Invalidate drops the cached decode of a source so the next load re-reads it.
func (b *SpeakerBackend) Invalidate(source string) {
	b.cache.Delete(ResolvePath(source))
}

// ClearCache drops every cached decode.
func (b *SpeakerBackend) ClearCache() {
	b.cache.Flush()
	b.logger.Debug("sound cache cleared")
}

// Close stops all playback and releases the speaker.
func (b *SpeakerBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		speaker.Clear()
		speaker.Close()
		b.initialized = false
	}

	b.ClearCache()
	b.logger.Debug("speaker backend closed")
}

// buffer returns the decoded source, decoding it on a cache miss.
func (b *SpeakerBackend) buffer(path string) (*beep.Buffer, error) {
	if cached, ok := b.cache.Get(path); ok {
		return cached.(*beep.Buffer), nil
	}

	buffer, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	b.cache.Set(path, buffer, cache.NoExpiration)

	b.logger.Debug("decoded sound", "path", path, "samples", buffer.Len())
	return buffer, nil
}

// ensureInitialized initializes the speaker if not already done.
func (b *SpeakerBackend) ensureInitialized() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	// Use a reasonable buffer size for low latency
	bufferSize := b.sampleRate.N(time.Millisecond * 100)

	if err := speaker.Init(b.sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	speaker.Play(b.mixer)

	b.initialized = true
	b.logger.Debug("speaker initialized", "sample_rate", b.sampleRate)
	return nil
}

func isSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".ogg", ".mp3", ".flac":
		return true
	}
	return false
}

// decodeFile loads and decodes a sound file into a buffer.
func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}

	return buffer, nil
}

// speakerResource is one track's streamer chain:
// seeker -> loop -> resample -> volume -> ctrl -> shared mixer.
// Fields read by the speaker goroutine are guarded by speaker.Lock.
type speakerResource struct {
	backend *SpeakerBackend
	path    string

	format beep.Format
	seeker beep.StreamSeeker
	ctrl   *beep.Ctrl
	gain   *effects.Volume

	volume   float64
	loop     bool
	muted    bool
	loaded   bool
	closed   bool
	attached bool
}

func (r *speakerResource) Load(ctx context.Context) error {
	type result struct {
		buffer *beep.Buffer
		err    error
	}

	done := make(chan result, 1)
	go func() {
		buffer, err := r.backend.buffer(r.path)
		if err == nil {
			err = r.backend.ensureInitialized()
		}
		done <- result{buffer: buffer, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return res.err
	}

	speaker.Lock()
	defer speaker.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.bind(res.buffer)
	return nil
}

// bind builds the streamer chain over buffer. Must be called with the
// speaker locked.
func (r *speakerResource) bind(buffer *beep.Buffer) {
	r.format = buffer.Format()
	r.seeker = buffer.Streamer(0, buffer.Len())

	var s beep.Streamer = &loopStreamer{r: r}
	if r.format.SampleRate != r.backend.sampleRate {
		s = beep.Resample(4, r.format.SampleRate, r.backend.sampleRate, s)
	}
	r.gain = &effects.Volume{Streamer: s, Base: 2}
	r.ctrl = &beep.Ctrl{Streamer: r.gain, Paused: true}
	r.applyGain()
	r.loaded = true
}

func (r *speakerResource) Play() error {
	speaker.Lock()
	defer speaker.Unlock()

	switch {
	case r.closed:
		return ErrClosed
	case !r.loaded:
		return ErrNotLoaded
	}

	// A finished one-shot starts over.
	if !r.loop && r.seeker.Position() >= r.seeker.Len() {
		if err := r.seeker.Seek(0); err != nil {
			return err
		}
	}

	r.ctrl.Paused = false
	if !r.attached {
		r.attached = true
		r.backend.mixer.Add(r.ctrl)
	}
	return nil
}

func (r *speakerResource) Pause() {
	speaker.Lock()
	defer speaker.Unlock()
	if r.ctrl != nil {
		r.ctrl.Paused = true
	}
}

func (r *speakerResource) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	switch {
	case r.closed:
		return ErrClosed
	case !r.loaded:
		return ErrNotLoaded
	}

	n := r.format.SampleRate.N(pos)
	if n > r.seeker.Len() {
		n = r.seeker.Len()
	}
	return r.seeker.Seek(n)
}

func (r *speakerResource) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if !r.loaded || r.closed {
		return 0
	}
	return r.format.SampleRate.D(r.seeker.Position())
}

func (r *speakerResource) Length() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if !r.loaded || r.closed {
		return 0
	}
	return r.format.SampleRate.D(r.seeker.Len())
}

func (r *speakerResource) Volume() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	return r.volume
}

func (r *speakerResource) SetVolume(v float64) {
	speaker.Lock()
	defer speaker.Unlock()
	r.volume = v
	r.applyGain()
}

func (r *speakerResource) Loop() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return r.loop
}

func (r *speakerResource) SetLoop(loop bool) {
	speaker.Lock()
	defer speaker.Unlock()
	r.loop = loop
}

func (r *speakerResource) Muted() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return r.muted
}

func (r *speakerResource) SetMuted(muted bool) {
	speaker.Lock()
	defer speaker.Unlock()
	r.muted = muted
	r.applyGain()
}

func (r *speakerResource) Close() error {
	speaker.Lock()
	defer speaker.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ctrl != nil {
		// A nil streamer drains the ctrl out of the mixer.
		r.ctrl.Streamer = nil
	}
	r.seeker = nil
	return nil
}

// applyGain must be called with the speaker locked.
func (r *speakerResource) applyGain() {
	if r.gain == nil {
		return
	}
	r.gain.Silent = r.muted || r.volume <= 0
	if !r.gain.Silent {
		r.gain.Volume = linearToGain(r.volume)
	}
}

// linearToGain converts a linear volume (0-1] to an exponent for base 2.
func linearToGain(volume float64) float64 {
	return math.Log2(volume)
}

// loopStreamer rewinds the seeker at the end when looping and reports the
// resource detached from the mixer once it drains.
type loopStreamer struct {
	r *speakerResource
}

func (s *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	r := s.r
	if r.closed || r.seeker == nil {
		r.attached = false
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		n, ok := r.seeker.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			continue
		}
		if !r.loop || r.seeker.Len() == 0 {
			break
		}
		if err := r.seeker.Seek(0); err != nil {
			break
		}
	}

	if filled == 0 {
		r.attached = false
		return 0, false
	}
	return filled, true
}

func (s *loopStreamer) Err() error {
	if s.r.seeker == nil {
		return nil
	}
	return s.r.seeker.Err()
}
