package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/Zuo-Peng/chordsync/internal/calibrate"
	"github.com/Zuo-Peng/chordsync/internal/clock"
	"github.com/Zuo-Peng/chordsync/internal/config"
	"github.com/Zuo-Peng/chordsync/internal/index"
	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/render"
	"github.com/Zuo-Peng/chordsync/internal/scroll"
)

const (
	headerRows   = 2
	calibRows    = 4
	stepBarWidth = 30

	seekStep    = 5.0
	speedStep   = 0.2
	offsetStep  = 0.5
	offsetStepL = 1.0
)

// frameMsg is one manual scroll frame. Frames from a stopped run carry a
// stale ticket and are dropped by the driver.
type frameMsg struct {
	view   int
	ticket scroll.Ticket
	at     time.Time
}

// pollMsg asks the viewer to sample the playback clock.
type pollMsg struct {
	view int
}

type viewerSettings struct {
	scroll       scroll.Options
	frame        time.Duration
	poll         time.Duration
	pixelsPerRow float64
}

func settingsFrom(cfg *config.Config) viewerSettings {
	opts := scroll.DefaultOptions()
	opts.MinSpeed = cfg.Scroll.MinSpeed
	opts.MaxSpeed = cfg.Scroll.MaxSpeed
	opts.DefaultSpeed = cfg.Scroll.DefaultSpeed
	opts.Logger = slog.Default()
	return viewerSettings{
		scroll:       opts,
		frame:        cfg.FrameInterval(),
		poll:         cfg.PollInterval(),
		pixelsPerRow: cfg.Scroll.PixelsPerRow,
	}
}

// renderKey identifies what the sheet was last rendered with.
type renderKey struct {
	active      int
	fill        int
	width       int
	calibrating bool
}

// songView is one viewing session of a song: the driver with its resolver,
// the transport clock standing in for the audio player, and an optional
// calibration run.
type songView struct {
	gen       int
	meta      parse.SongMeta
	lines     []parse.Line
	nonEmpty  []parse.Line
	chords    []string
	driver    *scroll.Driver
	transport *clock.Transport
	vp        viewport.Model
	sheet     *sheet
	calib     *calibrate.Session
	settings  viewerSettings

	width, height int
	rendered      renderKey
	status        string
}

// newSongView opens a song. duration overrides the indexed duration when
// positive. store may be nil.
func newSongView(row *index.SongRow, store scroll.Store, duration float64, settings viewerSettings, gen int) *songView {
	meta := row.Meta()
	if duration > 0 {
		meta.Duration = duration
	}

	v := &songView{
		gen:       gen,
		meta:      meta,
		lines:     parse.ParseContent(row.Content),
		chords:    parse.ExtractChords(row.Content),
		transport: clock.NewTransport(meta.Duration, nil),
		vp:        viewport.New(0, 0),
		settings:  settings,
		rendered:  renderKey{active: -2},
	}
	v.nonEmpty = parse.NonEmpty(v.lines)
	v.sheet = newSheet(&v.vp, settings.pixelsPerRow)
	v.driver = scroll.NewDriver(row.SongID, row.Content, v.sheet, store, settings.scroll)
	return v
}

func (v *songView) init() tea.Cmd {
	return v.pollCmd()
}

func (v *songView) close() {
	v.driver.Close()
	v.transport.Pause()
}

func (v *songView) frameCmd(t scroll.Ticket) tea.Cmd {
	gen := v.gen
	return tea.Tick(v.settings.frame, func(now time.Time) tea.Msg {
		return frameMsg{view: gen, ticket: t, at: now}
	})
}

func (v *songView) pollCmd() tea.Cmd {
	gen := v.gen
	return tea.Tick(v.settings.poll, func(time.Time) tea.Msg {
		return pollMsg{view: gen}
	})
}

func (v *songView) setSize(width, height int) {
	v.width, v.height = width, height
	v.layout()
}

func (v *songView) footerRows() int {
	if v.calib != nil {
		return calibRows
	}
	return 1
}

func (v *songView) layout() {
	h := v.height - headerRows - v.footerRows()
	if h < 1 {
		h = 1
	}
	v.vp.Width = v.width
	v.vp.Height = h
	v.refresh(true)
}

// position is what the sheet highlights: the calibration cursor while
// calibrating, the driver's resolved line otherwise.
func (v *songView) position() (int, float64) {
	if v.calib != nil {
		idx := v.calib.Index()
		if idx >= v.calib.Total() {
			idx = v.calib.Total() - 1
		}
		return idx, 0
	}
	st := v.driver.State()
	return st.ActiveLine, st.Progress
}

// refresh re-renders the sheet when the highlight changed visibly.
func (v *songView) refresh(force bool) {
	active, progress := v.position()
	k := renderKey{
		active:      active,
		fill:        int(math.Round(progress * 200)),
		width:       v.width,
		calibrating: v.calib != nil,
	}
	if !force && k == v.rendered {
		return
	}
	v.rendered = k

	content, starts := render.Song(v.lines, render.Options{
		Width:    v.width,
		Active:   active,
		Progress: progress,
	})
	v.sheet.setContent(content, starts)
}

// anchor puts line i a third of the way down the viewport at once.
func (v *songView) anchor(i int) {
	top, ok := v.sheet.LineTop(i)
	if !ok {
		return
	}
	v.sheet.SetScrollTop(top - v.sheet.ClientHeight()/3)
}

// update handles a message for the viewer. leave reports that the user
// asked to go back.
func (v *songView) update(msg tea.Msg) (leave bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.view != v.gen {
			return false, nil
		}
		if v.driver.Frame(msg.ticket, msg.at) {
			return false, v.frameCmd(msg.ticket)
		}
		return false, nil

	case pollMsg:
		if msg.view != v.gen {
			return false, nil
		}
		v.driver.OnProgress(v.transport.Sample())
		v.refresh(false)
		return false, v.pollCmd()

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var vpCmd tea.Cmd
			v.vp, vpCmd = v.vp.Update(msg)
			v.sheet.syncFromViewport()
			return false, vpCmd
		}
		return false, nil

	case tea.KeyMsg:
		if v.calib != nil {
			return false, v.updateCalibration(msg)
		}
		return v.updateKeys(msg)
	}
	return false, nil
}

func (v *songView) updateKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	v.status = ""
	switch {
	case key.Matches(msg, viewerKeys.Back):
		v.close()
		return true, nil

	case key.Matches(msg, viewerKeys.ToggleMode):
		m := v.driver.ToggleMode()
		v.status = m.String() + " mode"
		if m == scroll.ModeSync && !(v.meta.Duration > 0) {
			v.status = "sync mode: song has no duration, set one with --duration"
		}
		v.refresh(true)

	case key.Matches(msg, viewerKeys.ToggleScroll):
		wasScrolling := v.driver.State().Scrolling
		t, ok := v.driver.ToggleScroll()
		if ok {
			return false, v.frameCmd(t)
		}
		switch {
		case v.driver.State().Mode == scroll.ModeSync:
			v.status = "auto-scroll is for manual mode"
		case !wasScrolling:
			v.status = "already at the bottom"
		}

	case key.Matches(msg, viewerKeys.Faster):
		v.status = fmt.Sprintf("speed %.1f", v.driver.AdjustSpeed(speedStep))

	case key.Matches(msg, viewerKeys.Slower):
		v.status = fmt.Sprintf("speed %.1f", v.driver.AdjustSpeed(-speedStep))

	case key.Matches(msg, viewerKeys.Play):
		v.transport.Toggle()

	case key.Matches(msg, viewerKeys.SeekBack):
		v.transport.Seek(-seekStep)

	case key.Matches(msg, viewerKeys.SeekFwd):
		v.transport.Seek(seekStep)

	case key.Matches(msg, viewerKeys.OffsetDown):
		v.nudge(-offsetStep)

	case key.Matches(msg, viewerKeys.OffsetUp):
		v.nudge(offsetStep)

	case key.Matches(msg, viewerKeys.OffsetDownL):
		v.nudge(-offsetStepL)

	case key.Matches(msg, viewerKeys.OffsetUpL):
		v.nudge(offsetStepL)

	case key.Matches(msg, viewerKeys.TapStart):
		if v.driver.TapLyricsStart(v.transport.Sample()) {
			v.status = "lyrics start at " + calibrate.FormatTime(v.driver.State().Offset)
		} else {
			v.status = "calibrated songs ignore the offset"
		}

	case key.Matches(msg, viewerKeys.Calibrate):
		v.startCalibration()

	case key.Matches(msg, viewerKeys.ClearCalib):
		if v.driver.State().Calibrated {
			v.driver.ClearCalibration()
			v.status = "calibration cleared"
		}

	case key.Matches(msg, viewerKeys.CopyLRC):
		v.copyLRC()

	case key.Matches(msg, viewerKeys.LineUp):
		v.sheet.scrollRows(-1)

	case key.Matches(msg, viewerKeys.LineDown):
		v.sheet.scrollRows(1)

	case key.Matches(msg, viewerKeys.PageUp):
		v.sheet.scrollRows(-v.vp.Height)

	case key.Matches(msg, viewerKeys.PageDown):
		v.sheet.scrollRows(v.vp.Height)
	}
	return false, nil
}

func (v *songView) nudge(delta float64) {
	if v.driver.NudgeOffset(delta) {
		v.status = fmt.Sprintf("offset %.1fs", v.driver.State().Offset)
	} else {
		v.status = "calibrated songs ignore the offset"
	}
}

func (v *songView) startCalibration() {
	r := v.driver.Resolver()
	if r.LineCount() == 0 {
		v.status = "nothing to calibrate"
		return
	}
	v.driver.StopScroll()
	v.calib = calibrate.NewSession(r.LineCount(), r.Timestamps(), v.transport.Now)
	v.layout()
	v.anchor(v.calib.Index())
}

func (v *songView) endCalibration() {
	v.calib = nil
	v.layout()
}

func (v *songView) updateCalibration(msg tea.KeyMsg) tea.Cmd {
	s := v.calib
	v.status = ""
	switch {
	case key.Matches(msg, calibKeys.Cancel):
		v.endCalibration()
		return nil

	case key.Matches(msg, calibKeys.Save):
		ts := s.Save()
		v.driver.ApplyCalibration(ts)
		v.endCalibration()
		if len(ts) == 0 {
			v.status = "calibration cleared"
		} else {
			v.status = fmt.Sprintf("saved timing for %d of %d lines", len(ts), s.Total())
		}
		return nil

	case key.Matches(msg, calibKeys.Tap):
		if !v.transport.Sample().Playing {
			v.status = "press play first"
			return nil
		}
		switch {
		case s.Tap():
			if s.Done() {
				v.status = "all lines timed, w to save"
			}
		case !s.Done():
			v.status = "before the previous line's end, seek forward or undo"
		}

	case key.Matches(msg, calibKeys.Undo):
		s.Undo()

	case key.Matches(msg, calibKeys.Reset):
		if s.CanReset() {
			s.Reset()
		}

	case key.Matches(msg, calibKeys.Play):
		v.transport.Toggle()
		return nil

	case key.Matches(msg, viewerKeys.SeekBack):
		v.transport.Seek(-seekStep)
		return nil

	case key.Matches(msg, viewerKeys.SeekFwd):
		v.transport.Seek(seekStep)
		return nil

	default:
		return nil
	}
	v.refresh(false)
	v.anchor(v.rendered.active)
	return nil
}

func (v *songView) copyLRC() {
	r := v.driver.Resolver()
	if !r.Calibrated() {
		v.status = "calibrate first (c) to export LRC"
		return
	}
	lrc := calibrate.FormatLRC(v.meta, v.lines, r.Timestamps())
	if err := clipboard.WriteAll(lrc); err != nil {
		slog.Warn("copy lrc", "song_id", v.meta.SongID, "err", err)
		v.status = "clipboard unavailable, use: chordsync sync export"
		return
	}
	v.status = "LRC copied to clipboard"
}

func (v *songView) view() string {
	parts := []string{v.header(), v.vp.View()}
	if v.calib != nil {
		parts = append(parts, v.calibrationPanel())
	} else {
		parts = append(parts, v.statusBar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *songView) header() string {
	title := styleSongTitle.Render(v.meta.Title)
	if v.meta.Artist != "" {
		title += styleArtist.Render(" - " + v.meta.Artist)
	}
	if v.meta.Capo > 0 {
		title += styleTitle.Render(fmt.Sprintf("  capo %d", v.meta.Capo))
	}
	chords := "Chords: -"
	if len(v.chords) > 0 {
		chords = "Chords: " + strings.Join(v.chords, " ")
	}
	return title + "\n" + styleTitle.Render(chords)
}

func (v *songView) clockText(s clock.Sample) string {
	icon := "||"
	if s.Playing {
		icon = "|>"
	}
	total := "--:--"
	if s.Duration > 0 {
		total = calibrate.FormatTime(s.Duration)
	}
	return fmt.Sprintf("%s %s / %s", icon, calibrate.FormatTime(s.Time), total)
}

func (v *songView) statusBar() string {
	st := v.driver.State()
	var parts []string

	if st.Mode == scroll.ModeSync {
		parts = append(parts, styleBadgeSync.Render("SYNC"))
	} else {
		parts = append(parts, styleBadgeManual.Render("MANUAL"))
	}
	parts = append(parts, v.clockText(v.transport.Sample()))

	if st.Mode == scroll.ModeManual {
		scrolling := ""
		if st.Scrolling {
			scrolling = " scrolling"
		}
		parts = append(parts, fmt.Sprintf("speed %.1f%s", st.Speed, scrolling))
	} else if !(v.meta.Duration > 0) {
		parts = append(parts, styleWarn.Render("no duration, sync paused"))
	} else if st.Calibrated {
		parts = append(parts, styleCalibrated.Render("calibrated"))
	} else {
		parts = append(parts, fmt.Sprintf("estimated, offset %.1fs", st.Offset))
	}

	if v.status != "" {
		parts = append(parts, styleWarn.Render(v.status))
	} else {
		parts = append(parts, "m mode | s scroll | space play | c calibrate | esc back")
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (v *songView) calibrationPanel() string {
	s := v.calib
	idx, _ := v.position()

	var head string
	switch s.Phase() {
	case calibrate.Done:
		head = fmt.Sprintf("Calibration complete: %d lines", s.Total())
	case calibrate.AwaitingEnd:
		start, _ := s.Pending()
		head = fmt.Sprintf("Line %d/%d started at %s, tap when it ends", idx+1, s.Total(), calibrate.FormatTime(start))
	default:
		head = fmt.Sprintf("Line %d/%d, tap when it starts", idx+1, s.Total())
	}
	head += "   " + v.clockText(v.transport.Sample())

	line := ""
	if idx >= 0 && idx < len(v.nonEmpty) {
		line = "  " + parse.Preview(v.nonEmpty[idx])
	}

	done, total := s.Steps()
	filled := 0
	if total > 0 {
		filled = done * stepBarWidth / total
	}
	bar := styleStepFill.Render(strings.Repeat("#", filled)) +
		styleTitle.Render(strings.Repeat(".", stepBarWidth-filled)) +
		fmt.Sprintf(" %d/%d", done, total)

	hint := func(ok bool, text string) string {
		if ok {
			return text
		}
		return styleTitle.Render(text)
	}
	hints := []string{
		hint(!s.Done(), "space tap"),
		hint(s.CanUndo(), "bksp undo"),
		hint(s.CanReset(), "r reset"),
		"w save",
		"p play",
		"esc cancel",
	}
	footer := strings.Join(hints, " | ")
	if v.status != "" {
		footer = styleWarn.Render(v.status) + " | " + footer
	}

	return styleStatusBar.Render(strings.Join([]string{head, line, bar, footer}, "\n"))
}
