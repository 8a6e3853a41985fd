package audio

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/voidaudio/internal/device"
)

// Default manager settings.
const (
	DefaultMasterVolume     = 0.7
	DefaultMusicFade        = 2 * time.Second
	DefaultFadeStepInterval = 100 * time.Millisecond
)

// Kind classifies a track for the music/sound helpers.
type Kind string

const (
	KindSFX   Kind = "sfx"
	KindMusic Kind = "music"
)

// LoadOptions configures a track at load time.
type LoadOptions struct {
	Volume *float64 // nil = 1
	Loop   bool
	Kind   Kind // empty = KindSFX
}

// TrackSpec describes a track for PreloadTracks.
type TrackSpec struct {
	ID      string
	Source  string
	Options LoadOptions
}

// PlayOptions configures Play.
type PlayOptions struct {
	FadeIn  time.Duration
	Restart bool
}

// StopOptions configures Stop.
type StopOptions struct {
	FadeOut time.Duration
}

// TrackInfo is a point-in-time view of a registered track.
type TrackInfo struct {
	ID           string  `json:"id" yaml:"id"`
	Source       string  `json:"source" yaml:"source"`
	Kind         Kind    `json:"kind" yaml:"kind"`
	Volume       float64 `json:"volume" yaml:"volume"`
	DeviceVolume float64 `json:"device_volume" yaml:"device_volume"`
	Loop         bool    `json:"loop" yaml:"loop"`
	Playing      bool    `json:"playing" yaml:"playing"`
	Fading       bool    `json:"fading" yaml:"fading"`

	Position time.Duration `json:"position" yaml:"position"`
	Length   time.Duration `json:"length" yaml:"length"`
}

// Gain returns a pointer to v, for LoadOptions.Volume.
func Gain(v float64) *float64 {
	return &v
}

type track struct {
	id       string
	source   string
	kind     Kind
	resource device.Resource
	volume   float64
	loop     bool
	playing  bool
	ramp     *ramp
}

func (t *track) effectiveVolume(master float64) float64 {
	return clamp(t.volume * master)
}

type pendingLoad struct {
	done chan struct{}
	err  error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMasterVolume sets the initial master volume.
func WithMasterVolume(v float64) Option {
	return func(m *Manager) { m.master = clamp(v) }
}

// WithMuted sets the initial mute state.
func WithMuted(muted bool) Option {
	return func(m *Manager) { m.muted = muted }
}

// WithMusicFade sets the fade used by PlayMusic and StopMusic.
func WithMusicFade(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.musicFade = d
		}
	}
}

// WithFadeStepInterval sets the fade ramp tick.
func WithFadeStepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.stepInterval = d
		}
	}
}

// Manager owns the track registry, master volume and mute state.
// It is safe for concurrent use; one mutex guards the whole registry.
type Manager struct {
	mu      sync.Mutex
	logger  *slog.Logger
	backend device.Backend

	tracks  map[string]*track
	loading map[string]*pendingLoad

	// Bumped by Dispose so in-flight loads don't register afterwards.
	generation uint64

	master       float64
	muted        bool
	musicFade    time.Duration
	stepInterval time.Duration
}

// NewManager creates a manager driving resources from backend.
func NewManager(backend device.Backend, opts ...Option) *Manager {
	m := &Manager{
		logger:       slog.Default(),
		backend:      backend,
		tracks:       make(map[string]*track),
		loading:      make(map[string]*pendingLoad),
		master:       DefaultMasterVolume,
		musicFade:    DefaultMusicFade,
		stepInterval: DefaultFadeStepInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadTrack opens source and registers it under id once it can play through.
// Loading a registered id is a no-op. Concurrent loads of one id share a
// single resource and result.
func (m *Manager) LoadTrack(ctx context.Context, id, source string, opts LoadOptions) error {
	if id == "" || source == "" {
		return &LoadError{ID: id, Source: source, Err: ErrInvalidTrack}
	}

	m.mu.Lock()
	if _, ok := m.tracks[id]; ok {
		m.mu.Unlock()
		return nil
	}
	if p, ok := m.loading[id]; ok {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.err
		case <-ctx.Done():
			return &LoadError{ID: id, Source: source, Err: ctx.Err()}
		}
	}
	p := &pendingLoad{done: make(chan struct{})}
	m.loading[id] = p
	master, muted, gen := m.master, m.muted, m.generation
	m.mu.Unlock()

	t, err := m.open(ctx, id, source, opts, master, muted)

	m.mu.Lock()
	delete(m.loading, id)
	if err == nil && gen != m.generation {
		err = &LoadError{ID: id, Source: source, Err: ErrDisposed}
		_ = t.resource.Close()
	}
	if err == nil {
		// Master or mute may have changed while loading.
		t.resource.SetVolume(t.effectiveVolume(m.master))
		t.resource.SetMuted(m.muted)
		m.tracks[id] = t
	}
	m.mu.Unlock()

	p.err = err
	close(p.done)

	if err != nil {
		m.logger.Error("failed to load track", "id", id, "source", source, "error", err)
		return err
	}
	m.logger.Debug("loaded track", "id", id, "source", source)
	return nil
}

// open allocates and loads a resource without touching the registry.
func (m *Manager) open(ctx context.Context, id, source string, opts LoadOptions, master float64, muted bool) (*track, error) {
	res, err := m.backend.Open(source)
	if err != nil {
		return nil, &LoadError{ID: id, Source: source, Err: err}
	}

	t := &track{
		id:       id,
		source:   source,
		kind:     opts.Kind,
		resource: res,
		volume:   1,
		loop:     opts.Loop,
	}
	if t.kind == "" {
		t.kind = KindSFX
	}
	if opts.Volume != nil {
		t.volume = clamp(*opts.Volume)
	}

	res.SetVolume(t.effectiveVolume(master))
	res.SetLoop(t.loop)
	res.SetMuted(muted)

	if err := res.Load(ctx); err != nil {
		_ = res.Close()
		return nil, &LoadError{ID: id, Source: source, Err: err}
	}
	return t, nil
}

// PreloadTracks loads every spec concurrently and returns the first error.
// A failure does not cancel the other loads.
func (m *Manager) PreloadTracks(ctx context.Context, specs []TrackSpec) error {
	var g errgroup.Group
	for _, spec := range specs {
		g.Go(func() error {
			return m.LoadTrack(ctx, spec.ID, spec.Source, spec.Options)
		})
	}
	return g.Wait()
}

// ReloadTrack re-opens a registered track's source and swaps it in, keeping
// volume, loop and playback position. On failure the old resource stays.
func (m *Manager) ReloadTrack(ctx context.Context, id string) error {
	m.mu.Lock()
	old, ok := m.tracks[id]
	if !ok {
		m.mu.Unlock()
		return &LoadError{ID: id, Err: ErrUnknownTrack}
	}
	source := old.source
	opts := LoadOptions{Volume: Gain(old.volume), Loop: old.loop, Kind: old.kind}
	master, muted, gen := m.master, m.muted, m.generation
	m.mu.Unlock()

	fresh, err := m.open(ctx, id, source, opts, master, muted)
	if err != nil {
		m.logger.Warn("failed to reload track", "id", id, "error", err)
		return err
	}

	m.mu.Lock()
	t, ok := m.tracks[id]
	if !ok || t != old || gen != m.generation {
		m.mu.Unlock()
		_ = fresh.resource.Close()
		return &LoadError{ID: id, Source: source, Err: ErrDisposed}
	}

	prev := t.resource
	pos := prev.Position()
	t.cancelRamp()
	prev.Pause()

	t.resource = fresh.resource
	t.resource.SetVolume(t.effectiveVolume(m.master))
	t.resource.SetMuted(m.muted)
	if t.playing {
		if err := t.resource.Seek(pos); err != nil {
			m.logger.Debug("failed to restore position", "id", id, "error", err)
		}
		m.startPlayback(t)
	}
	m.mu.Unlock()

	_ = prev.Close()
	m.logger.Info("reloaded track", "id", id, "source", source)
	return nil
}

// Play starts a track. Unknown ids are logged and ignored.
func (m *Manager) Play(id string, opts PlayOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok {
		m.logger.Warn("attempted to play unknown track", "id", id)
		return
	}

	t.cancelRamp()

	if opts.Restart || !t.playing {
		if err := t.resource.Seek(0); err != nil {
			m.logger.Debug("failed to rewind track", "id", id, "error", err)
		}
	}

	target := t.effectiveVolume(m.master)
	if opts.FadeIn > 0 {
		t.resource.SetVolume(0)
		m.fadeIn(t, target, opts.FadeIn)
	} else {
		t.resource.SetVolume(target)
	}

	m.startPlayback(t)
}

// startPlayback issues Play on the resource. Rejections are logged, and the
// track is recorded as playing either way.
func (m *Manager) startPlayback(t *track) {
	if err := t.resource.Play(); err != nil {
		m.logger.Warn("playback rejected", "id", t.id, "error", err)
	}
	t.playing = true
}

// Stop stops a playing track and rewinds it. With a fade the track is
// recorded as stopped immediately and paused once the fade reaches zero.
func (m *Manager) Stop(id string, opts StopOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok || !t.playing {
		return
	}

	t.cancelRamp()

	if opts.FadeOut > 0 {
		m.fadeOut(t, opts.FadeOut)
	} else {
		m.halt(t)
	}
	t.playing = false
}

func (m *Manager) halt(t *track) {
	t.resource.Pause()
	if err := t.resource.Seek(0); err != nil {
		m.logger.Debug("failed to rewind track", "id", t.id, "error", err)
	}
}

// Pause pauses a playing track, keeping its position.
func (m *Manager) Pause(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok || !t.playing {
		return
	}

	if t.cancelRamp() {
		t.resource.SetVolume(t.effectiveVolume(m.master))
	}
	t.resource.Pause()
	t.playing = false
}

// Resume continues a paused track from its current position.
func (m *Manager) Resume(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok || t.playing {
		return
	}

	// A pending fade-out would pause the resumed track.
	if t.cancelRamp() {
		t.resource.SetVolume(t.effectiveVolume(m.master))
	}
	m.startPlayback(t)
}

// IsPlaying reports the recorded playback state. Unknown ids report false.
func (m *Manager) IsPlaying(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	return ok && t.playing
}

// PlayMusic plays a track with the music fade-in.
func (m *Manager) PlayMusic(id string) {
	m.Play(id, PlayOptions{FadeIn: m.musicFade})
}

// StopMusic stops a track with the music fade-out.
func (m *Manager) StopMusic(id string) {
	m.Stop(id, StopOptions{FadeOut: m.musicFade})
}

// PlaySound plays a track immediately.
func (m *Manager) PlaySound(id string) {
	m.Play(id, PlayOptions{})
}

// StopSound stops a track immediately.
func (m *Manager) StopSound(id string) {
	m.Stop(id, StopOptions{})
}

// SetTrackVolume sets a track's gain, clamped to [0,1].
func (m *Manager) SetTrackVolume(id string, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok {
		return
	}
	t.volume = clamp(volume)
	m.applyVolume(t)
}

// SetMasterVolume sets the master gain, clamped to [0,1], and updates every track.
func (m *Manager) SetMasterVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.master = clamp(volume)
	for _, t := range m.tracks {
		m.applyVolume(t)
	}
	m.logger.Debug("master volume set", "volume", m.master)
}

// applyVolume pushes the effective volume to the device. A fade-in is
// superseded; a fade-out restarts from the new level over its remaining ticks.
func (m *Manager) applyVolume(t *track) {
	r := t.ramp
	t.cancelRamp()
	t.resource.SetVolume(t.effectiveVolume(m.master))
	if r != nil && r.out {
		m.fadeOutSteps(t, r.remaining())
	}
}

// MasterVolume returns the master gain.
func (m *Manager) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

// SetMuted mutes or unmutes every track without touching volumes.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setMutedLocked(muted)
}

func (m *Manager) setMutedLocked(muted bool) {
	m.muted = muted
	for _, t := range m.tracks {
		t.resource.SetMuted(muted)
	}
	m.logger.Debug("mute set", "muted", muted)
}

// ToggleMute flips the mute state and returns the new state.
func (m *Manager) ToggleMute() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setMutedLocked(!m.muted)
	return m.muted
}

// Muted returns the mute state.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Track returns a snapshot of one track.
func (m *Manager) Track(id string) (TrackInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok {
		return TrackInfo{}, false
	}
	return t.info(), true
}

// Tracks returns snapshots of every registered track, sorted by id.
func (m *Manager) Tracks() []TrackInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]TrackInfo, 0, len(m.tracks))
	for _, t := range m.tracks {
		infos = append(infos, t.info())
	}
	slices.SortFunc(infos, func(a, b TrackInfo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return infos
}

func (t *track) info() TrackInfo {
	return TrackInfo{
		ID:           t.id,
		Source:       t.source,
		Kind:         t.kind,
		Volume:       t.volume,
		DeviceVolume: t.resource.Volume(),
		Loop:         t.loop,
		Playing:      t.playing,
		Fading:       t.ramp != nil,
		Position:     t.resource.Position(),
		Length:       t.resource.Length(),
	}
}

// Unload releases a single track. Unknown ids are ignored.
func (m *Manager) Unload(id string) {
	m.mu.Lock()
	t, ok := m.tracks[id]
	if ok {
		t.cancelRamp()
		delete(m.tracks, id)
	}
	m.mu.Unlock()

	if ok {
		release(t)
		m.logger.Debug("unloaded track", "id", id)
	}
}

// Dispose pauses and releases every track and clears the registry. Loads in
// flight fail with ErrDisposed.
func (m *Manager) Dispose() {
	m.mu.Lock()
	tracks := m.tracks
	for _, t := range tracks {
		t.cancelRamp()
	}
	m.tracks = make(map[string]*track)
	m.generation++
	m.mu.Unlock()

	for _, t := range tracks {
		release(t)
	}
	m.logger.Debug("audio manager disposed", "tracks", len(tracks))
}

func release(t *track) {
	t.resource.Pause()
	_ = t.resource.Close()
}

// clamp limits v to [0,1]. NaN becomes 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
