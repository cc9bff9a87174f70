// Package calibrate records precise per-line start/end times while a song
// plays. The operator taps start and end for each non-empty line in turn.
package calibrate

import (
	"math"

	"github.com/Zuo-Peng/chordsync/internal/resolve"
)

type Phase int

const (
	AwaitingStart Phase = iota
	AwaitingEnd
	Done
)

func (p Phase) String() string {
	switch p {
	case AwaitingStart:
		return "awaiting-start"
	case AwaitingEnd:
		return "awaiting-end"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Session is the in-memory state of one calibration run. It is not safe for
// concurrent use; every action runs on the UI's update loop.
type Session struct {
	total      int
	index      int
	phase      Phase
	pending    float64
	timestamps []resolve.LineTimestamp
	now        func() float64
}

// NewSession starts a calibration over total lines. A seed of previously
// saved timestamps resumes after its last entry; entries beyond total are
// dropped. now is sampled at the instant of every tap.
func NewSession(total int, seed []resolve.LineTimestamp, now func() float64) *Session {
	if total < 0 {
		total = 0
	}
	if len(seed) > total {
		seed = seed[:total]
	}
	s := &Session{
		total:      total,
		timestamps: append([]resolve.LineTimestamp(nil), seed...),
		now:        now,
	}
	s.index = len(s.timestamps)
	if s.index >= total {
		s.phase = Done
	}
	return s
}

// TapStart marks the current line as started. A time before the end of
// the previous line is refused.
func (s *Session) TapStart() bool {
	if s.phase != AwaitingStart {
		return false
	}
	t := s.now()
	if t < s.floor() {
		return false
	}
	s.pending = t
	s.phase = AwaitingEnd
	return true
}

// TapEnd commits the current line and advances to the next one.
func (s *Session) TapEnd() bool {
	if s.phase != AwaitingEnd {
		return false
	}
	end := s.now()
	if end < s.floor() {
		return false
	}
	s.timestamps = append(s.timestamps[:s.index], resolve.LineTimestamp{
		Start: math.Min(s.pending, end),
		End:   math.Max(s.pending, end),
	})
	s.pending = 0

	if s.index+1 >= s.total {
		s.phase = Done
		return true
	}
	s.index++
	s.phase = AwaitingStart
	return true
}

// floor is the earliest time the current line may use: lines are kept in
// order and never overlap.
func (s *Session) floor() float64 {
	if s.index == 0 || s.index > len(s.timestamps) {
		return 0
	}
	return s.timestamps[s.index-1].End
}

// Tap is the single-key binding: start or end depending on the phase.
func (s *Session) Tap() bool {
	switch s.phase {
	case AwaitingStart:
		return s.TapStart()
	case AwaitingEnd:
		return s.TapEnd()
	default:
		return false
	}
}

// Undo steps back once: a pending start is discarded first, otherwise the
// last committed line is removed and becomes current again.
func (s *Session) Undo() bool {
	switch {
	case s.phase == AwaitingEnd:
		s.pending = 0
		s.phase = AwaitingStart
		return true
	case s.phase == Done:
		if s.total == 0 {
			return false
		}
		s.index = s.total - 1
		s.timestamps = s.timestamps[:s.index]
		s.phase = AwaitingStart
		return true
	case s.index > 0:
		s.index--
		s.timestamps = s.timestamps[:s.index]
		return true
	}
	return false
}

// Reset discards every commit and the pending start.
func (s *Session) Reset() {
	s.timestamps = nil
	s.index = 0
	s.pending = 0
	s.phase = AwaitingStart
	if s.total == 0 {
		s.phase = Done
	}
}

// Save returns a copy of the committed timestamps. It may be partial.
func (s *Session) Save() []resolve.LineTimestamp {
	return append([]resolve.LineTimestamp(nil), s.timestamps...)
}

func (s *Session) Index() int   { return s.index }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Done() bool   { return s.phase == Done }
func (s *Session) Total() int   { return s.total }

// Committed returns the number of recorded lines.
func (s *Session) Committed() int { return len(s.timestamps) }

// Pending returns the recorded start of the current line, if any.
func (s *Session) Pending() (float64, bool) {
	if s.phase != AwaitingEnd {
		return 0, false
	}
	return s.pending, true
}

// Timestamp returns the committed entry for line i.
func (s *Session) Timestamp(i int) (resolve.LineTimestamp, bool) {
	if i < 0 || i >= len(s.timestamps) {
		return resolve.LineTimestamp{}, false
	}
	return s.timestamps[i], true
}

func (s *Session) CanUndo() bool {
	switch s.phase {
	case AwaitingEnd:
		return true
	case Done:
		return s.total > 0
	default:
		return s.index > 0
	}
}

func (s *Session) CanReset() bool {
	return len(s.timestamps) > 0 || s.phase == AwaitingEnd
}

// Steps reports progress as two steps per line; a pending start counts as
// one step.
func (s *Session) Steps() (done, total int) {
	done = 2 * len(s.timestamps)
	if s.phase == AwaitingEnd {
		done++
	}
	return done, 2 * s.total
}
