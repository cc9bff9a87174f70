package clock

import (
	"testing"
	"time"
)

type manualTime struct {
	t time.Time
}

func (m *manualTime) now() time.Time { return m.t }
func (m *manualTime) advance(d time.Duration) { m.t = m.t.Add(d) }

func newTestTransport(duration float64) (*Transport, *manualTime) {
	mt := &manualTime{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewTransport(duration, mt.now), mt
}

func TestTransport_PlayPause(t *testing.T) {
	tr, mt := newTestTransport(60)

	if s := tr.Sample(); s.Playing || s.Time != 0 || s.Duration != 60 {
		t.Fatalf("initial sample = %+v", s)
	}

	tr.Play()
	mt.advance(1500 * time.Millisecond)
	if s := tr.Sample(); !s.Playing || s.Time != 1.5 {
		t.Errorf("after 1.5s playing: %+v", s)
	}

	tr.Pause()
	mt.advance(10 * time.Second)
	if s := tr.Sample(); s.Playing || s.Time != 1.5 {
		t.Errorf("paused sample moved: %+v", s)
	}

	tr.Toggle()
	mt.advance(time.Second)
	if got := tr.Now(); got != 2.5 {
		t.Errorf("Now = %v, expected 2.5", got)
	}
}

func TestTransport_StopsAtEnd(t *testing.T) {
	tr, mt := newTestTransport(10)
	tr.Play()
	mt.advance(30 * time.Second)

	s := tr.Sample()
	if s.Playing || s.Time != 10 {
		t.Errorf("sample past end = %+v, expected parked at 10", s)
	}

	// playing again restarts from the top
	tr.Play()
	mt.advance(time.Second)
	if got := tr.Now(); got != 1 {
		t.Errorf("Now after restart = %v, expected 1", got)
	}
}

func TestTransport_Seek(t *testing.T) {
	tr, mt := newTestTransport(20)
	tr.Seek(5)
	if got := tr.Now(); got != 5 {
		t.Errorf("Now after seek = %v, expected 5", got)
	}
	tr.Seek(-10)
	if got := tr.Now(); got != 0 {
		t.Errorf("Now after seek below zero = %v, expected 0", got)
	}

	tr.Play()
	mt.advance(2 * time.Second)
	tr.Seek(100)
	if got := tr.Now(); got != 20 {
		t.Errorf("Now after seek past end = %v, expected 20", got)
	}
}

func TestTransport_UnknownDuration(t *testing.T) {
	tr, mt := newTestTransport(0)
	tr.Play()
	mt.advance(90 * time.Second)
	if s := tr.Sample(); !s.Playing || s.Time != 90 || s.Duration != 0 {
		t.Errorf("unbounded sample = %+v", s)
	}

	tr.SetDuration(60)
	if s := tr.Sample(); s.Time != 60 || s.Playing {
		t.Errorf("after SetDuration shorter than position: %+v", s)
	}
}
