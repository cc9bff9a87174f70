package resolve

import (
	"math"
	"testing"
)

const scenarioContent = "[Am]Hello [G]world\n\n[C]Bye"

func TestResolver_Estimated(t *testing.T) {
	r := NewResolver(scenarioContent, nil)

	if r.Calibrated() {
		t.Fatal("expected uncalibrated resolver")
	}
	if r.LineCount() != 2 {
		t.Fatalf("LineCount = %d, expected 2", r.LineCount())
	}
	if len(r.Lines()) != 3 {
		t.Errorf("len(Lines) = %d, expected 3", len(r.Lines()))
	}

	// weights 11 and 8 -> breakpoints 0, 11/19, 1
	pos := r.Resolve(5, 19, 0)
	if pos.Line != 0 || math.Abs(pos.Progress-5.0/11.0) > 1e-9 {
		t.Errorf("Resolve(5) = %+v", pos)
	}
	pos = r.Resolve(15, 19, 0)
	if pos.Line != 1 {
		t.Errorf("Resolve(15) line = %d, expected 1", pos.Line)
	}
}

func TestResolver_SwitchesToPrecise(t *testing.T) {
	r := NewResolver(scenarioContent, nil)
	r.SetTimestamps([]LineTimestamp{{0, 2}, {3, 5}})

	if !r.Calibrated() {
		t.Fatal("expected calibrated resolver")
	}
	if got := r.Resolve(2.5, 100, 50); got != (Position{1, 0}) {
		t.Errorf("Resolve(2.5) = %+v, expected {1 0}; offset must not apply to timestamps", got)
	}

	r.SetTimestamps(nil)
	if r.Calibrated() {
		t.Error("clearing timestamps should fall back to estimation")
	}
}

func TestResolver_ContentChangeRecomputes(t *testing.T) {
	r := NewResolver(scenarioContent, nil)
	before := len(r.Breakpoints())

	r.SetContent("one line only")
	if r.LineCount() != 1 {
		t.Errorf("LineCount = %d, expected 1", r.LineCount())
	}
	if len(r.Breakpoints()) == before {
		t.Error("breakpoints were not recomputed")
	}
}

func TestResolver_Empty(t *testing.T) {
	r := NewResolver("\n\n", []LineTimestamp{{0, 1}})
	if got := r.Resolve(0.5, 10, 0); got != None {
		t.Errorf("Resolve on empty content = %+v, expected None", got)
	}
}

func TestResolver_LongCalibrationClamped(t *testing.T) {
	r := NewResolver("only line", []LineTimestamp{{0, 1}, {2, 3}, {4, 5}})
	got := r.Resolve(4.5, 10, 0)
	if got.Line != 0 || got.Progress != 1 {
		t.Errorf("Resolve = %+v, expected last content line held", got)
	}
}

func TestResolver_TimestampsCopied(t *testing.T) {
	ts := []LineTimestamp{{0, 1}}
	r := NewResolver(scenarioContent, ts)
	ts[0].Start = 99

	if r.Timestamps()[0].Start != 0 {
		t.Error("resolver shares caller's timestamp slice")
	}
}
