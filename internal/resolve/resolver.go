package resolve

import "github.com/Zuo-Peng/chordsync/internal/parse"

// Resolver holds the memoized per-song data needed to resolve positions:
// parsed lines, weights, breakpoints and calibrated timestamps. One
// Resolver belongs to one viewing session.
type Resolver struct {
	lines      []parse.Line
	nonEmpty   int
	weights    []int
	bp         []float64
	timestamps []LineTimestamp
}

func NewResolver(content string, timestamps []LineTimestamp) *Resolver {
	r := &Resolver{}
	r.SetContent(content)
	r.SetTimestamps(timestamps)
	return r
}

// SetContent re-parses content and recomputes weights and breakpoints.
func (r *Resolver) SetContent(content string) {
	r.lines = parse.ParseContent(content)
	r.weights = parse.WeightsOf(r.lines)
	r.nonEmpty = len(r.weights)
	r.bp = Breakpoints(r.weights)
}

// SetTimestamps replaces the calibration. A nil or empty slice switches the
// resolver back to estimation.
func (r *Resolver) SetTimestamps(ts []LineTimestamp) {
	if len(ts) == 0 {
		r.timestamps = nil
		return
	}
	r.timestamps = append([]LineTimestamp(nil), ts...)
}

// Calibrated reports whether precise timestamps are in use.
func (r *Resolver) Calibrated() bool {
	return len(r.timestamps) > 0
}

func (r *Resolver) Lines() []parse.Line {
	return r.lines
}

// LineCount returns the number of non-empty lines.
func (r *Resolver) LineCount() int {
	return r.nonEmpty
}

func (r *Resolver) Timestamps() []LineTimestamp {
	return append([]LineTimestamp(nil), r.timestamps...)
}

func (r *Resolver) Weights() []int {
	return r.weights
}

func (r *Resolver) Breakpoints() []float64 {
	return r.bp
}

// Resolve returns the active line for playback time t. Offset only applies
// to estimation; calibrated timestamps are absolute.
func (r *Resolver) Resolve(t, duration, offset float64) Position {
	if r.nonEmpty == 0 {
		return None
	}
	if r.Calibrated() {
		pos := Precise(r.timestamps, t)
		if pos.Line >= r.nonEmpty {
			// calibration recorded for a longer version of the content
			return Position{Line: r.nonEmpty - 1, Progress: 1}
		}
		return pos
	}
	return Estimated(r.bp, t, duration, offset)
}
