// Package clock provides playback time to the sync engine.
package clock

import (
	"sync"
	"time"
)

// Sample is one reading of a playback source, in seconds.
type Sample struct {
	Time     float64
	Duration float64
	Playing  bool
}

// Clock is the external playback clock provider the viewer polls.
type Clock interface {
	Sample() Sample
}

// Transport is a software playback clock: it tracks play/pause/seek over a
// fixed duration without decoding any audio. It stands in for an external
// player and is what the terminal viewer drives with its transport keys.
type Transport struct {
	mu       sync.Mutex
	duration float64
	pos      float64 // position at the last state change
	since    time.Time
	playing  bool
	now      func() time.Time
}

// NewTransport returns a paused transport at position 0. now may be nil.
func NewTransport(duration float64, now func() time.Time) *Transport {
	if now == nil {
		now = time.Now
	}
	if duration < 0 {
		duration = 0
	}
	return &Transport{duration: duration, now: now}
}

func (t *Transport) Sample() Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos := t.positionLocked()
	if t.playing && t.duration > 0 && pos >= t.duration {
		// reached the end: park there
		t.pos = t.duration
		t.playing = false
		pos = t.duration
	}
	return Sample{Time: pos, Duration: t.duration, Playing: t.playing}
}

// Now returns the current playback time; it is the function calibration
// samples at every tap.
func (t *Transport) Now() float64 {
	return t.Sample().Time
}

func (t *Transport) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playing {
		return
	}
	if t.duration > 0 && t.pos >= t.duration {
		t.pos = 0
	}
	t.since = t.now()
	t.playing = true
}

func (t *Transport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		return
	}
	t.pos = t.positionLocked()
	t.playing = false
}

func (t *Transport) Toggle() {
	if t.Sample().Playing {
		t.Pause()
	} else {
		t.Play()
	}
}

// Seek moves the position by delta seconds, clamped to the track.
func (t *Transport) Seek(delta float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pos = t.clampLocked(t.positionLocked() + delta)
	t.since = t.now()
}

// SetDuration changes the track length, e.g. once it becomes known.
func (t *Transport) SetDuration(d float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d < 0 {
		d = 0
	}
	t.pos = t.positionLocked()
	t.since = t.now()
	t.duration = d
	t.pos = t.clampLocked(t.pos)
}

func (t *Transport) positionLocked() float64 {
	if !t.playing {
		return t.pos
	}
	return t.clampLocked(t.pos + t.now().Sub(t.since).Seconds())
}

func (t *Transport) clampLocked(v float64) float64 {
	if v < 0 {
		return 0
	}
	if t.duration > 0 && v > t.duration {
		return t.duration
	}
	return v
}
