package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/viewport"
)

// sheet adapts a bubbles viewport to scroll.Viewport. The driver works in
// pixels; the terminal shows whole rows, so the fractional position is kept
// here and rounded down to a row offset.
type sheet struct {
	vp           *viewport.Model
	pixelsPerRow float64
	top          float64
	starts       []int // first row of each non-empty line
}

func newSheet(vp *viewport.Model, pixelsPerRow float64) *sheet {
	if pixelsPerRow <= 0 {
		pixelsPerRow = 1
	}
	return &sheet{vp: vp, pixelsPerRow: pixelsPerRow}
}

func (s *sheet) ScrollTop() float64 { return s.top }

func (s *sheet) SetScrollTop(v float64) {
	maxTop := math.Max(0, s.ScrollHeight()-s.ClientHeight())
	s.top = math.Max(0, math.Min(v, maxTop))
	s.vp.SetYOffset(int(s.top / s.pixelsPerRow))
}

func (s *sheet) ClientHeight() float64 {
	return float64(s.vp.Height) * s.pixelsPerRow
}

func (s *sheet) ScrollHeight() float64 {
	return float64(s.vp.TotalLineCount()) * s.pixelsPerRow
}

func (s *sheet) LineTop(i int) (float64, bool) {
	if i < 0 || i >= len(s.starts) {
		return 0, false
	}
	return float64(s.starts[i]) * s.pixelsPerRow, true
}

// setContent replaces the rendered rows, keeping the scroll position.
func (s *sheet) setContent(content string, starts []int) {
	s.starts = starts
	s.vp.SetContent(content)
	s.SetScrollTop(s.top)
}

// syncFromViewport adopts a row offset changed by the user (keys, mouse).
func (s *sheet) syncFromViewport() {
	if int(s.top/s.pixelsPerRow) != s.vp.YOffset {
		s.top = float64(s.vp.YOffset) * s.pixelsPerRow
	}
}

// scrollRows moves by whole rows, as the arrow keys do.
func (s *sheet) scrollRows(n int) {
	s.SetScrollTop(s.top + float64(n)*s.pixelsPerRow)
}
