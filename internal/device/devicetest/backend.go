// Package devicetest provides an in-memory device backend for tests.
package devicetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmylchreest/voidaudio/internal/device"
)

// ErrRejected is a convenient playback rejection for tests.
var ErrRejected = errors.New("playback rejected by policy")

// Backend records every resource it opens.
type Backend struct {
	mu        sync.Mutex
	resources []*Resource
	openErr   map[string]error
	loadErr   map[string]error
	playErr   error
	gate      chan struct{}
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	return &Backend{
		openErr: make(map[string]error),
		loadErr: make(map[string]error),
	}
}

// Open implements device.Backend.
func (b *Backend) Open(source string) (device.Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.openErr[source]; err != nil {
		return nil, err
	}

	r := &Resource{
		backend: b,
		source:  source,
		volume:  1,
	}
	b.resources = append(b.resources, r)
	return r, nil
}

// FailOpen makes Open fail for source.
func (b *Backend) FailOpen(source string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openErr[source] = err
}

// FailLoad makes Load fail for resources opened from source.
func (b *Backend) FailLoad(source string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadErr[source] = err
}

// RejectPlay makes every Play call return err. A nil err accepts again.
func (b *Backend) RejectPlay(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playErr = err
}

// HoldLoads blocks every Load until the returned release func is called.
func (b *Backend) HoldLoads() (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	b.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gate == gate {
				b.gate = nil
			}
			b.mu.Unlock()
			close(gate)
		})
	}
}

// Opens returns how many resources were opened.
func (b *Backend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.resources)
}

// Resources returns every opened resource in open order.
func (b *Backend) Resources() []*Resource {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Resource(nil), b.resources...)
}

// Last returns the most recently opened resource for source, or nil.
func (b *Backend) Last(source string) *Resource {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.resources) - 1; i >= 0; i-- {
		if b.resources[i].source == source {
			return b.resources[i]
		}
	}
	return nil
}

// Resource is a fake playable resource.
type Resource struct {
	mu      sync.Mutex
	backend *Backend
	source  string

	volume   float64
	volumes  []float64
	loop     bool
	muted    bool
	position time.Duration
	length   time.Duration

	loaded  bool
	playing bool
	closed  bool
	plays   int
	pauses  int
	seeks   []time.Duration
}

func (r *Resource) Load(ctx context.Context) error {
	r.backend.mu.Lock()
	gate := r.backend.gate
	err := r.backend.loadErr[r.source]
	r.backend.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return device.ErrClosed
	}
	r.loaded = true
	return nil
}

func (r *Resource) Play() error {
	r.backend.mu.Lock()
	err := r.backend.playErr
	r.backend.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays++
	if err != nil {
		return err
	}
	if r.closed {
		return device.ErrClosed
	}
	if !r.loaded {
		return device.ErrNotLoaded
	}
	r.playing = true
	return nil
}

func (r *Resource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses++
	r.playing = false
}

func (r *Resource) Seek(pos time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return device.ErrClosed
	}
	r.seeks = append(r.seeks, pos)
	r.position = pos
	return nil
}

func (r *Resource) Position() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

func (r *Resource) Length() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.length
}

// SetLength sets the duration reported by Length.
func (r *Resource) SetLength(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.length = d
}

// SetPosition simulates playback progress.
func (r *Resource) SetPosition(pos time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = pos
}

func (r *Resource) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *Resource) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
	r.volumes = append(r.volumes, v)
}

func (r *Resource) Loop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop
}

func (r *Resource) SetLoop(loop bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loop = loop
}

func (r *Resource) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

func (r *Resource) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
}

func (r *Resource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.playing = false
	return nil
}

// Source returns the locator the resource was opened with.
func (r *Resource) Source() string { return r.source }

// Playing reports whether the device is producing audio.
func (r *Resource) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// Closed reports whether Close was called.
func (r *Resource) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Plays returns how many times Play was called.
func (r *Resource) Plays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plays
}

// Pauses returns how many times Pause was called.
func (r *Resource) Pauses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauses
}

// Seeks returns every position passed to Seek.
func (r *Resource) Seeks() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.seeks...)
}

// Volumes returns every value passed to SetVolume.
func (r *Resource) Volumes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.volumes...)
}
