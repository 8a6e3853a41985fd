package audio

import (
	"math"
	"time"
)

// rampEpsilon absorbs float error in the last ramp step.
const rampEpsilon = 1e-9

// ramp is a cancellable fixed-rate volume fade owned by one track.
type ramp struct {
	out   bool
	steps float64
	n     int // ticks applied so far
	stop  chan struct{}
}

// remaining returns the ticks left before the ramp completes. Always at
// least one.
func (r *ramp) remaining() float64 {
	return math.Max(1, r.steps-float64(r.n))
}

// cancelRamp stops the track's ramp, if any, and reports whether one ran.
// Must be called with the manager locked.
func (t *track) cancelRamp() bool {
	if t.ramp == nil {
		return false
	}
	close(t.ramp.stop)
	t.ramp = nil
	return true
}

// rampSteps returns how many ticks a fade of d takes. Always at least one.
func (m *Manager) rampSteps(d time.Duration) float64 {
	return math.Max(1, float64(d)/float64(m.stepInterval))
}

// fadeIn ramps the device volume from 0 to target. Must be called with the
// manager locked and no ramp running on t.
func (m *Manager) fadeIn(t *track, target float64, d time.Duration) {
	steps := m.rampSteps(d)
	step := target / steps
	m.startRamp(t, false, steps, func(n int) bool {
		v := math.Min(target, float64(n)*step)
		if v >= target-rampEpsilon {
			v = target
		}
		t.resource.SetVolume(v)
		return v >= target
	})
}

// fadeOut ramps the device volume from its current value to 0, then pauses
// and rewinds. Must be called with the manager locked and no ramp running on t.
func (m *Manager) fadeOut(t *track, d time.Duration) {
	m.fadeOutSteps(t, m.rampSteps(d))
}

// fadeOutSteps ramps from the current device volume to 0 in steps ticks.
func (m *Manager) fadeOutSteps(t *track, steps float64) {
	from := t.resource.Volume()
	step := from / steps
	m.startRamp(t, true, steps, func(n int) bool {
		v := math.Max(0, from-float64(n)*step)
		if v <= rampEpsilon {
			v = 0
		}
		t.resource.SetVolume(v)
		if v > 0 {
			return false
		}
		m.halt(t)
		return true
	})
}

// startRamp runs next once per tick until it reports done or the ramp is
// superseded. next runs with the manager locked.
func (m *Manager) startRamp(t *track, out bool, steps float64, next func(n int) bool) {
	r := &ramp{out: out, steps: steps, stop: make(chan struct{})}
	t.ramp = r

	go func() {
		ticker := time.NewTicker(m.stepInterval)
		defer ticker.Stop()

		for n := 1; ; n++ {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
			}

			m.mu.Lock()
			// Lost a race with cancelRamp between the tick and the lock.
			if t.ramp != r {
				m.mu.Unlock()
				return
			}
			r.n = n
			done := next(n)
			if done {
				t.ramp = nil
			}
			m.mu.Unlock()

			if done {
				return
			}
		}
	}()
}
