package scroll

import "time"

// Ticket identifies one run of the manual frame loop. Frames carrying a
// ticket from an earlier run are ignored, which is how a stop or a mode
// switch cancels callbacks that are already scheduled.
type Ticket uint64

// frameLoop tracks the current run and the time of its previous frame.
type frameLoop struct {
	gen     Ticket
	running bool
	last    time.Time
}

func (l *frameLoop) start() Ticket {
	l.gen++
	l.running = true
	l.last = time.Time{}
	return l.gen
}

func (l *frameLoop) stop() {
	if l.running {
		l.gen++
	}
	l.running = false
	l.last = time.Time{}
}

func (l *frameLoop) valid(t Ticket) bool {
	return l.running && t == l.gen
}

// elapsed returns the time since the previous frame of this run; the first
// frame of a run has zero elapsed time.
func (l *frameLoop) elapsed(now time.Time) time.Duration {
	if l.last.IsZero() {
		l.last = now
		return 0
	}
	d := now.Sub(l.last)
	l.last = now
	if d < 0 {
		return 0
	}
	return d
}
