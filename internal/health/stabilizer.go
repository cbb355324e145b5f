package health

import (
	"sync"
	"time"
)

// Tuning for the debounce window. Raw per-poll health is noisy (transient
// network hiccups), so transitions need corroboration; recovery is trusted
// more slowly than failure.
const (
	historyCap = 10 // samples kept per device
	minSamples = 3  // below this, raw passes through unsmoothed

	recoverStreak = 6    // consecutive healthy samples to flip up
	recoverRatio  = 0.80 // or success ratio over the window, with ratioMinLen
	failStreak    = 5    // consecutive unhealthy samples to flip down
	failRatio     = 0.70 // or failure ratio over the window, with ratioMinLen
	ratioMinLen   = 5    // ratio rules need at least this many samples
)

type sample struct {
	healthy bool
	at      time.Time
}

type deviceHistory struct {
	samples    []sample
	stable     bool
	lastChange time.Time
}

// Stabilizer converts raw per-poll health readings into a debounced stable
// flag per device. Safe for concurrent use.
type Stabilizer struct {
	mu      sync.Mutex
	devices map[string]*deviceHistory
	now     func() time.Time
}

func NewStabilizer() *Stabilizer {
	return &Stabilizer{
		devices: make(map[string]*deviceHistory),
		now:     time.Now,
	}
}

// Observe records one raw reading for the device and returns the stable flag.
// Called once per poll cycle per known device.
func (s *Stabilizer) Observe(deviceID string, raw bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	h := s.devices[deviceID]
	if h == nil {
		h = &deviceHistory{}
		s.devices[deviceID] = h
	}

	h.samples = append(h.samples, sample{healthy: raw, at: now})
	if len(h.samples) > historyCap {
		h.samples = h.samples[len(h.samples)-historyCap:]
	}

	// Too little history to smooth anything yet.
	if len(h.samples) < minSamples {
		h.stable = raw
		return h.stable
	}

	// Sticky agreement: no transition to evaluate.
	if raw == h.stable {
		return h.stable
	}

	if h.stable {
		if tailCount(h.samples, false) >= failStreak || ratioOf(h.samples, false) >= failRatio {
			h.stable = false
			h.lastChange = now
		}
	} else {
		if tailCount(h.samples, true) >= recoverStreak || ratioOf(h.samples, true) >= recoverRatio {
			h.stable = true
			h.lastChange = now
		}
	}
	return h.stable
}

// Stable returns the current stable flag without recording a sample.
// Devices never observed report false.
func (s *Stabilizer) Stable(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.devices[deviceID]; h != nil {
		return h.stable
	}
	return false
}

// LastChange returns when the device's stable flag last flipped.
func (s *Stabilizer) LastChange(deviceID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.devices[deviceID]; h != nil {
		return h.lastChange
	}
	return time.Time{}
}

// tailCount counts trailing samples that all match want.
func tailCount(samples []sample, want bool) int {
	n := 0
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].healthy != want {
			break
		}
		n++
	}
	return n
}

// ratioOf returns the fraction of samples matching want over the window, or 0
// when the window is shorter than ratioMinLen.
func ratioOf(samples []sample, want bool) float64 {
	if len(samples) < ratioMinLen {
		return 0
	}
	n := 0
	for _, s := range samples {
		if s.healthy == want {
			n++
		}
	}
	return float64(n) / float64(len(samples))
}
