package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/Zuo-Peng/chordsync/internal/calibrate"
	"github.com/Zuo-Peng/chordsync/internal/clock"
	"github.com/Zuo-Peng/chordsync/internal/index"
	"github.com/Zuo-Peng/chordsync/internal/scroll"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSettings() viewerSettings {
	return viewerSettings{
		scroll:       scroll.DefaultOptions(),
		frame:        16 * time.Millisecond,
		poll:         150 * time.Millisecond,
		pixelsPerRow: 24,
	}
}

const testSong = `[C]One line here
[G]Two line here

[Am]Three line here
[F] [G]`

func newTestView(t *testing.T, duration float64) (*songView, *fakeTime) {
	t.Helper()
	row := &index.SongRow{
		SongID:   "song-1",
		Title:    "Test",
		Artist:   "Band",
		Content:  testSong,
		Duration: duration,
	}
	v := newSongView(row, nil, 0, testSettings(), 1)
	ft := &fakeTime{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	v.transport = clock.NewTransport(duration, ft.now)
	v.setSize(80, 12)
	return v, ft
}

func TestSheet(t *testing.T) {
	vp := viewport.New(20, 10)
	s := newSheet(&vp, 24)
	content := strings.TrimSuffix(strings.Repeat("row\n", 40), "\n")
	s.setContent(content, []int{0, 5, 12})

	if s.ScrollHeight() != 960 || s.ClientHeight() != 240 {
		t.Fatalf("heights = %v/%v", s.ScrollHeight(), s.ClientHeight())
	}

	s.SetScrollTop(1000)
	if s.ScrollTop() != 720 || vp.YOffset != 30 {
		t.Errorf("clamped top = %v, yoffset %d", s.ScrollTop(), vp.YOffset)
	}

	// sub-row positions accumulate without moving the rows
	s.SetScrollTop(30)
	if s.ScrollTop() != 30 || vp.YOffset != 1 {
		t.Errorf("top = %v, yoffset %d", s.ScrollTop(), vp.YOffset)
	}

	if top, ok := s.LineTop(1); !ok || top != 120 {
		t.Errorf("LineTop(1) = %v, %v", top, ok)
	}
	if _, ok := s.LineTop(3); ok {
		t.Error("LineTop out of range should fail")
	}

	// a user scroll replaces the fractional position
	vp.SetYOffset(4)
	s.syncFromViewport()
	if s.ScrollTop() != 96 {
		t.Errorf("after user scroll top = %v", s.ScrollTop())
	}
}

func TestSongView_SyncFollowsClock(t *testing.T) {
	v, ft := newTestView(t, 40)

	v.update(runeKey("m"))
	if v.driver.State().Mode != scroll.ModeSync {
		t.Fatal("expected sync mode")
	}

	v.update(runeKey(" "))
	ft.advance(39 * time.Second)
	if _, cmd := v.update(pollMsg{view: v.gen}); cmd == nil {
		t.Error("poll should reschedule itself")
	}

	st := v.driver.State()
	if st.ActiveLine != 3 || !st.SyncActive {
		t.Errorf("state near the end = %+v", st)
	}
	if v.rendered.active != 3 {
		t.Errorf("rendered active = %d", v.rendered.active)
	}

	// polls for an old viewer are dropped
	if _, cmd := v.update(pollMsg{view: v.gen + 1}); cmd != nil {
		t.Error("stale poll rescheduled")
	}
}

func TestSongView_ManualScrollFrames(t *testing.T) {
	v, _ := newTestView(t, 0)
	v.setSize(80, 6)

	_, cmd := v.update(runeKey("s"))
	if cmd == nil {
		t.Fatal("starting the scroll should schedule a frame")
	}
	st := v.driver.State()
	if !st.Scrolling {
		t.Fatal("expected scrolling")
	}

	// stop, then a frame from the old run arrives
	v.update(runeKey("s"))
	_, cmd = v.update(frameMsg{view: v.gen, ticket: 1, at: time.Now()})
	if cmd != nil {
		t.Error("frame from a stopped run rescheduled")
	}
}

func TestSongView_ScrollAtBottom(t *testing.T) {
	v, _ := newTestView(t, 0)

	// the whole sheet fits, so there is nothing to scroll
	if _, cmd := v.update(runeKey("s")); cmd != nil {
		t.Error("scroll started with the sheet fully visible")
	}
	if v.status != "already at the bottom" {
		t.Errorf("status = %q", v.status)
	}
}

func TestSongView_NoDurationHint(t *testing.T) {
	v, _ := newTestView(t, 0)
	v.update(runeKey("m"))
	if !strings.Contains(v.status, "no duration") {
		t.Errorf("status = %q", v.status)
	}
	if !strings.Contains(v.statusBar(), "no duration") {
		t.Error("status bar does not flag the missing duration")
	}
}

func TestSongView_OffsetKeys(t *testing.T) {
	v, ft := newTestView(t, 60)

	v.update(runeKey("]"))
	v.update(runeKey("}"))
	if got := v.driver.State().Offset; got != 1.5 {
		t.Errorf("offset = %v, expected 1.5", got)
	}
	v.update(runeKey("{"))
	v.update(runeKey("{"))
	if got := v.driver.State().Offset; got != 0 {
		t.Errorf("offset clamped = %v, expected 0", got)
	}

	v.update(runeKey(" "))
	ft.advance(7 * time.Second)
	v.update(runeKey("t"))
	if got := v.driver.State().Offset; got != 7 {
		t.Errorf("tapped offset = %v, expected 7", got)
	}
}

func TestSongView_Calibration(t *testing.T) {
	v, ft := newTestView(t, 60)

	v.update(runeKey("c"))
	if v.calib == nil {
		t.Fatal("calibration overlay not opened")
	}
	if v.vp.Height != 12-headerRows-calibRows {
		t.Errorf("viewport height = %d", v.vp.Height)
	}

	// taps are refused while paused
	v.update(runeKey(" "))
	if v.calib.Phase() != calibrate.AwaitingStart || v.status != "press play first" {
		t.Errorf("tap while paused: phase %v, status %q", v.calib.Phase(), v.status)
	}

	v.update(runeKey("p"))
	ft.advance(2 * time.Second)
	v.update(runeKey(" "))
	ft.advance(3 * time.Second)
	v.update(runeKey(" "))
	ft.advance(1 * time.Second)
	v.update(runeKey(" "))
	v.update(tea.KeyMsg{Type: tea.KeyBackspace})
	if v.calib.Committed() != 1 || v.calib.Phase() != calibrate.AwaitingStart {
		t.Errorf("after undo: committed %d phase %v", v.calib.Committed(), v.calib.Phase())
	}

	v.update(runeKey("w"))
	if v.calib != nil {
		t.Fatal("overlay still open after save")
	}
	ts := v.driver.Resolver().Timestamps()
	if len(ts) != 1 || ts[0].Start != 2 || ts[0].End != 5 {
		t.Errorf("saved timestamps = %v", ts)
	}
	if !v.driver.State().Calibrated {
		t.Error("driver not calibrated after save")
	}

	// offset keys are ignored once calibrated
	v.update(runeKey("]"))
	if v.driver.State().Offset != 0 {
		t.Error("offset changed on a calibrated song")
	}

	// reopening resumes after the saved line
	v.update(runeKey("c"))
	if v.calib.Index() != 1 {
		t.Errorf("resumed at %d, expected 1", v.calib.Index())
	}
	v.update(tea.KeyMsg{Type: tea.KeyEsc})
	if v.calib != nil {
		t.Error("esc should cancel calibration")
	}
	if len(v.driver.Resolver().Timestamps()) != 1 {
		t.Error("cancel should keep the saved calibration")
	}
}

func TestSongView_CalibrationRefusesSeekBack(t *testing.T) {
	v, ft := newTestView(t, 60)
	v.update(runeKey("c"))
	v.update(runeKey("p"))

	ft.advance(2 * time.Second)
	v.update(runeKey(" "))
	ft.advance(3 * time.Second)
	v.update(runeKey(" "))

	// back to 0:00, before line 0 ended
	v.update(tea.KeyMsg{Type: tea.KeyLeft})
	v.update(runeKey(" "))
	if v.calib.Phase() != calibrate.AwaitingStart || v.calib.Index() != 1 {
		t.Errorf("tap after seeking back: phase %v index %d", v.calib.Phase(), v.calib.Index())
	}
	if !strings.Contains(v.status, "previous line") {
		t.Errorf("status = %q", v.status)
	}

	ft.advance(6 * time.Second)
	v.update(runeKey(" "))
	ft.advance(1 * time.Second)
	v.update(runeKey(" "))
	v.update(runeKey("w"))

	ts := v.driver.Resolver().Timestamps()
	if len(ts) != 2 || ts[1].Start != 6 || ts[1].End != 7 {
		t.Errorf("saved timestamps = %v", ts)
	}
}

func TestSongView_Back(t *testing.T) {
	v, _ := newTestView(t, 60)
	v.update(runeKey(" "))
	leave, _ := v.update(tea.KeyMsg{Type: tea.KeyEsc})
	if !leave {
		t.Fatal("esc should leave the viewer")
	}
	if v.transport.Sample().Playing {
		t.Error("transport still playing after leaving")
	}
}
