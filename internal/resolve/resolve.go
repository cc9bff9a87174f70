// Package resolve maps a playback time onto a line of a chord sheet and a
// progress fraction within that line.
package resolve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// LineTimestamp is the calibrated start/end time of one non-empty line,
// in seconds.
type LineTimestamp struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Position is the resolved line (index into the non-empty lines) and how
// far through it playback is, in [0,1].
type Position struct {
	Line     int
	Progress float64
}

// None is returned when nothing can be resolved.
var None = Position{Line: -1, Progress: 0}

// estimateCeiling keeps the estimated position strictly below 1 so the
// last line is still found by the breakpoint search.
const estimateCeiling = 0.9999

// Precise resolves t against calibrated timestamps, which must be ordered
// by start and non-overlapping. Inside a gap between two lines the next
// line is shown at progress 0.
func Precise(ts []LineTimestamp, t float64) Position {
	n := len(ts)
	if n == 0 {
		return None
	}
	if t < ts[0].Start {
		return Position{Line: 0}
	}
	if t >= ts[n-1].End {
		return Position{Line: n - 1, Progress: 1}
	}

	// greatest i with ts[i].Start <= t
	i := sort.Search(n, func(k int) bool { return ts[k].Start > t }) - 1
	if i < 0 {
		i = 0
	}

	cur := ts[i]
	if t <= cur.End {
		span := cur.End - cur.Start
		if span <= 0 {
			return Position{Line: i}
		}
		return Position{Line: i, Progress: math.Min((t-cur.Start)/span, 1)}
	}
	if i+1 < n {
		return Position{Line: i + 1}
	}
	return Position{Line: i, Progress: 1}
}

// Breakpoints returns the cumulative normalized line boundaries for
// weights: bp[0] = 0, bp[len(weights)] = 1, non-decreasing.
func Breakpoints(weights []int) []float64 {
	if len(weights) == 0 {
		return nil
	}
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	bp := make([]float64, len(weights)+1)
	if total == 0 {
		// degenerate weights: spread lines evenly
		for k := range bp {
			bp[k] = float64(k) / float64(len(weights))
		}
		return bp
	}

	acc := 0
	for k, w := range weights {
		if w > 0 {
			acc += w
		}
		bp[k+1] = float64(acc) / float64(total)
	}
	bp[len(weights)] = 1
	return bp
}

// Estimated resolves t against weight breakpoints over a track of the
// given duration, shifting the timeline by offset seconds.
func Estimated(bp []float64, t, duration, offset float64) Position {
	n := len(bp) - 1
	if n <= 0 || !(duration > 0) {
		return None
	}

	adjusted := clamp(t-offset, 0, duration)
	p := clamp(adjusted/duration, 0, estimateCeiling)

	// greatest k in [0,n) with bp[k] <= p
	k := sort.Search(n, func(i int) bool { return bp[i] > p }) - 1
	if k < 0 {
		k = 0
	}

	span := bp[k+1] - bp[k]
	if span <= 0 {
		return Position{Line: k}
	}
	return Position{Line: k, Progress: clamp((p-bp[k])/span, 0, 1)}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

var ErrInvalidTimestamps = errors.New("invalid line timestamps")

// Validate checks timestamps loaded from outside the process: finite,
// start <= end, ordered by start and not overlapping. Callers treat an
// invalid array as absent.
func Validate(ts []LineTimestamp) error {
	for i, t := range ts {
		if math.IsNaN(t.Start) || math.IsNaN(t.End) || math.IsInf(t.Start, 0) || math.IsInf(t.End, 0) {
			return fmt.Errorf("%w: entry %d is not finite", ErrInvalidTimestamps, i)
		}
		if t.Start < 0 || t.End < t.Start {
			return fmt.Errorf("%w: entry %d has start %.3f end %.3f", ErrInvalidTimestamps, i, t.Start, t.End)
		}
		if i > 0 && t.Start < ts[i-1].End {
			return fmt.Errorf("%w: entry %d starts at %.3f before entry %d ends", ErrInvalidTimestamps, i, t.Start, i-1)
		}
	}
	return nil
}
