package device

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constStreamer produces n stereo samples of a constant value.
type constStreamer struct {
	n     int
	value float64
}

func (s *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.n <= 0 {
		return 0, false
	}
	n := min(len(samples), s.n)
	for i := range samples[:n] {
		samples[i] = [2]float64{s.value, s.value}
	}
	s.n -= n
	return n, true
}

func (s *constStreamer) Err() error { return nil }

var testFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func testBuffer(n int) *beep.Buffer {
	buf := beep.NewBuffer(testFormat)
	buf.Append(&constStreamer{n: n, value: 0.5})
	return buf
}

func loadedResource(buf *beep.Buffer, loop bool) *speakerResource {
	return &speakerResource{
		format: buf.Format(),
		seeker: buf.Streamer(0, buf.Len()),
		loop:   loop,
		loaded: true,
		volume: 1,
	}
}

func quietBackend() *SpeakerBackend {
	return NewSpeakerBackend(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeWAV(t *testing.T, path string, samples int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, &constStreamer{n: samples, value: 0.25}, testFormat))
	require.NoError(t, f.Close())
}

func TestNewSpeakerBackend_DefaultSampleRate(t *testing.T) {
	b := quietBackend()
	assert.Equal(t, beep.SampleRate(DefaultSampleRate), b.sampleRate)

	b = NewSpeakerBackend(48000, nil)
	assert.Equal(t, beep.SampleRate(48000), b.sampleRate)
}

func TestSpeakerBackend_OpenRejectsUnsupportedFormat(t *testing.T) {
	_, err := quietBackend().Open("notes.txt")
	assert.ErrorContains(t, err, "unsupported audio format: .txt")
}

func TestSpeakerBackend_OpenIsLazy(t *testing.T) {
	r, err := quietBackend().Open("does/not/exist.ogg")
	require.NoError(t, err)

	assert.Equal(t, 1.0, r.Volume())
	assert.Zero(t, r.Position())
	assert.Zero(t, r.Length())
	assert.ErrorIs(t, r.Play(), ErrNotLoaded)
	assert.ErrorIs(t, r.Seek(0), ErrNotLoaded)
}

func TestIsSupported(t *testing.T) {
	for _, p := range []string{"a.wav", "a.OGG", "a.mp3", "a.flac"} {
		assert.True(t, isSupported(p), p)
	}
	for _, p := range []string{"a.txt", "a", "a.m4a"} {
		assert.False(t, isSupported(p), p)
	}
}

func TestSpeakerBackend_BufferCachesDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.wav")
	writeWAV(t, path, 441)

	b := quietBackend()
	first, err := b.buffer(path)
	require.NoError(t, err)
	assert.Equal(t, 441, first.Len())

	second, err := b.buffer(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Rewritten file is only picked up after invalidation.
	writeWAV(t, path, 882)
	cached, err := b.buffer(path)
	require.NoError(t, err)
	assert.Equal(t, 441, cached.Len())

	b.Invalidate(path)
	fresh, err := b.buffer(path)
	require.NoError(t, err)
	assert.Equal(t, 882, fresh.Len())

	b.ClearCache()
	assert.Zero(t, b.cache.ItemCount())
}

func TestDecodeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := decodeFile(filepath.Join(dir, "missing.wav"))
	assert.ErrorContains(t, err, "failed to open sound file")

	bad := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not a wav"), 0644))
	_, err = decodeFile(bad)
	assert.ErrorContains(t, err, "failed to decode sound")
}

func TestSpeakerResource_SeekPositionLength(t *testing.T) {
	r := loadedResource(testBuffer(44100), false)

	assert.Equal(t, testFormat.SampleRate.D(44100), r.Length())
	require.NoError(t, r.Seek(testFormat.SampleRate.D(22050)))
	assert.Equal(t, testFormat.SampleRate.D(22050), r.Position())

	// Seeking past the end clamps to the end.
	require.NoError(t, r.Seek(testFormat.SampleRate.D(88200)))
	assert.Equal(t, r.Length(), r.Position())
}

func TestSpeakerResource_Close(t *testing.T) {
	r := loadedResource(testBuffer(10), false)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Play(), ErrClosed)
	assert.ErrorIs(t, r.Seek(0), ErrClosed)
	assert.Zero(t, r.Position())
}

func TestLoopStreamer_StopsAtEnd(t *testing.T) {
	r := loadedResource(testBuffer(10), false)
	r.attached = true
	s := &loopStreamer{r: r}

	samples := make([][2]float64, 25)
	n, ok := s.Stream(samples)
	assert.Equal(t, 10, n)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, samples[9][0], 1e-3)

	n, ok = s.Stream(samples)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.False(t, r.attached)
}

func TestLoopStreamer_Loops(t *testing.T) {
	r := loadedResource(testBuffer(10), true)
	s := &loopStreamer{r: r}

	samples := make([][2]float64, 25)
	n, ok := s.Stream(samples)
	assert.Equal(t, 25, n)
	assert.True(t, ok)
	assert.Equal(t, 5, r.seeker.Position())
}

func TestApplyGain(t *testing.T) {
	r := loadedResource(testBuffer(10), false)
	r.gain = &effects.Volume{Base: 2}

	tests := []struct {
		name    string
		volume  float64
		muted   bool
		silent  bool
		expGain float64
	}{
		{"full", 1, false, false, 0},
		{"half", 0.5, false, false, -1},
		{"quarter", 0.25, false, false, -2},
		{"zero", 0, false, true, 0},
		{"muted", 1, true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.gain.Volume = 0
			r.volume = tt.volume
			r.muted = tt.muted
			r.applyGain()

			assert.Equal(t, tt.silent, r.gain.Silent)
			if !tt.silent {
				assert.InDelta(t, tt.expGain, r.gain.Volume, 1e-9)
			}
		})
	}
}

func boundResource(b *SpeakerBackend, buf *beep.Buffer, loop bool) *speakerResource {
	r := &speakerResource{backend: b, volume: 1, loop: loop}
	r.bind(buf)
	return r
}

func TestSpeakerResource_ReplayAfterEnd(t *testing.T) {
	b := quietBackend()
	r := boundResource(b, testBuffer(10), false)

	require.NoError(t, r.Play())
	samples := make([][2]float64, 10)
	n, ok := b.mixer.Stream(samples)
	require.True(t, ok)
	require.Equal(t, 10, n)
	assert.Equal(t, r.Length(), r.Position())

	// Drain: the resource detaches once it runs dry.
	b.mixer.Stream(samples)
	assert.False(t, r.attached)

	require.NoError(t, r.Play())
	assert.Zero(t, r.Position())
	assert.True(t, r.attached)

	samples = make([][2]float64, 1)
	b.mixer.Stream(samples)
	assert.InDelta(t, 0.5, samples[0][0], 1e-3)
}

func TestSpeakerResource_PlayKeepsPositionMidway(t *testing.T) {
	b := quietBackend()
	r := boundResource(b, testBuffer(44100), false)

	require.NoError(t, r.Seek(testFormat.SampleRate.D(22050)))
	require.NoError(t, r.Play())
	assert.Equal(t, testFormat.SampleRate.D(22050), r.Position())
}

func TestSpeakerResource_LoopingPlayAtEndDoesNotSeek(t *testing.T) {
	b := quietBackend()
	r := boundResource(b, testBuffer(10), true)

	require.NoError(t, r.seeker.Seek(r.seeker.Len()))
	require.NoError(t, r.Play())
	assert.Equal(t, r.seeker.Len(), r.seeker.Position())
}
