// Package scroll drives the song viewer: a constant-speed manual scroll
// loop, and a sync mode that follows a playback clock and keeps the active
// line anchored in the viewport.
package scroll

import (
	"log/slog"
	"math"
	"time"

	"github.com/Zuo-Peng/chordsync/internal/clock"
	"github.com/Zuo-Peng/chordsync/internal/resolve"
)

type Mode int

const (
	ModeManual Mode = iota
	ModeSync
)

func (m Mode) String() string {
	if m == ModeSync {
		return "sync"
	}
	return "manual"
}

// Viewport is the rendering collaborator's scroll surface. All values are
// in the same unit (pixels for a GUI, scaled rows for a terminal).
type Viewport interface {
	ScrollTop() float64
	SetScrollTop(v float64)
	ClientHeight() float64
	ScrollHeight() float64
	// LineTop returns the offset of non-empty line i from the top of the
	// content.
	LineTop(i int) (float64, bool)
}

// Store persists calibration and offset per song. Failures never reach the
// viewer; the driver logs them and carries on.
type Store interface {
	LoadTimestamps(songID string) ([]resolve.LineTimestamp, error)
	SaveTimestamps(songID string, ts []resolve.LineTimestamp) error
	ClearTimestamps(songID string) error
	LoadOffset(songID string) (float64, error)
	SaveOffset(songID string, offset float64) error
}

type Options struct {
	MinSpeed     float64
	MaxSpeed     float64
	DefaultSpeed float64
	// AnchorRatio is where the active line sits, as a fraction of the
	// viewport height from the top.
	AnchorRatio float64
	// Damping is the fraction of the remaining distance covered per sync
	// update.
	Damping float64
	// FrameBase is the frame length one unit of speed is normalised to.
	FrameBase time.Duration
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MinSpeed:     0.2,
		MaxSpeed:     5,
		DefaultSpeed: 1,
		AnchorRatio:  1.0 / 3.0,
		Damping:      0.12,
		FrameBase:    16670 * time.Microsecond,
	}
}

// State is what the rendering layer paints from.
type State struct {
	ActiveLine int
	Progress   float64
	Mode       Mode
	SyncActive bool
	Calibrated bool
	Offset     float64
	Speed      float64
	Scrolling  bool
}

// Driver owns the transient sync state of one song viewing session.
type Driver struct {
	songID   string
	view     Viewport
	store    Store
	resolver *resolve.Resolver
	opts     Options
	log      *slog.Logger

	mode       Mode
	pos        resolve.Position
	syncActive bool
	offset     float64
	speed      float64
	loop       frameLoop
}

// NewDriver builds the session state for a song, loading any saved
// calibration and offset. store may be nil.
func NewDriver(songID, content string, view Viewport, store Store, opts Options) *Driver {
	def := DefaultOptions()
	if opts.MinSpeed <= 0 || opts.MaxSpeed < opts.MinSpeed {
		opts.MinSpeed, opts.MaxSpeed = def.MinSpeed, def.MaxSpeed
	}
	if opts.AnchorRatio <= 0 || opts.AnchorRatio >= 1 {
		opts.AnchorRatio = def.AnchorRatio
	}
	if opts.Damping <= 0 || opts.Damping > 1 {
		opts.Damping = def.Damping
	}
	if opts.FrameBase <= 0 {
		opts.FrameBase = def.FrameBase
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Driver{
		songID: songID,
		view:   view,
		store:  store,
		opts:   opts,
		log:    logger.With("song_id", songID),
		pos:    resolve.None,
	}
	d.speed = d.clampSpeed(opts.DefaultSpeed)
	d.resolver = resolve.NewResolver(content, d.loadTimestamps())
	d.offset = d.loadOffset()
	return d
}

func (d *Driver) loadTimestamps() []resolve.LineTimestamp {
	if d.store == nil {
		return nil
	}
	ts, err := d.store.LoadTimestamps(d.songID)
	if err != nil {
		d.log.Warn("load timestamps failed, using estimation", "err", err)
		return nil
	}
	return ts
}

func (d *Driver) loadOffset() float64 {
	if d.store == nil {
		return 0
	}
	off, err := d.store.LoadOffset(d.songID)
	if err != nil {
		d.log.Warn("load offset failed", "err", err)
		return 0
	}
	if math.IsNaN(off) || math.IsInf(off, 0) || off < 0 {
		return 0
	}
	return off
}

func (d *Driver) State() State {
	return State{
		ActiveLine: d.pos.Line,
		Progress:   d.pos.Progress,
		Mode:       d.mode,
		SyncActive: d.syncActive,
		Calibrated: d.resolver.Calibrated(),
		Offset:     d.offset,
		Speed:      d.speed,
		Scrolling:  d.loop.running,
	}
}

func (d *Driver) Resolver() *resolve.Resolver {
	return d.resolver
}

// SetMode switches between manual and sync. Any switch clears the
// highlight and cancels the manual loop.
func (d *Driver) SetMode(m Mode) {
	d.loop.stop()
	d.pos = resolve.None
	d.mode = m
}

func (d *Driver) ToggleMode() Mode {
	if d.mode == ModeSync {
		d.SetMode(ModeManual)
	} else {
		d.SetMode(ModeSync)
	}
	return d.mode
}

// StartScroll begins a manual scroll run. The caller schedules frames and
// hands each back to Frame with the returned ticket. Nothing starts when
// the view is already at the bottom.
func (d *Driver) StartScroll() (Ticket, bool) {
	if d.mode != ModeManual || d.atBottom() {
		return 0, false
	}
	return d.loop.start(), true
}

// atBottom reports whether the view is within one unit of the end.
func (d *Driver) atBottom() bool {
	if d.view == nil {
		return false
	}
	return d.view.ScrollTop()+d.view.ClientHeight() >= d.view.ScrollHeight()-1
}

func (d *Driver) StopScroll() {
	d.loop.stop()
}

// ToggleScroll starts or stops the manual loop. ok reports whether a new
// run was started.
func (d *Driver) ToggleScroll() (t Ticket, ok bool) {
	if d.loop.running {
		d.loop.stop()
		return 0, false
	}
	return d.StartScroll()
}

// Frame advances the manual scroll by speed units per FrameBase of elapsed
// time. It returns false when the run is over (stale ticket, stopped, or
// the bottom was reached) and no further frame should be scheduled.
func (d *Driver) Frame(t Ticket, now time.Time) bool {
	if !d.loop.valid(t) || d.view == nil {
		return false
	}
	elapsed := d.loop.elapsed(now)
	step := d.speed * float64(elapsed) / float64(d.opts.FrameBase)

	maxTop := math.Max(0, d.view.ScrollHeight()-d.view.ClientHeight())
	top := math.Min(d.view.ScrollTop()+step, maxTop)
	d.view.SetScrollTop(top)

	if d.atBottom() {
		d.loop.stop()
		return false
	}
	return true
}

func (d *Driver) SetSpeed(v float64) float64 {
	d.speed = d.clampSpeed(v)
	return d.speed
}

func (d *Driver) AdjustSpeed(delta float64) float64 {
	return d.SetSpeed(d.speed + delta)
}

func (d *Driver) clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		v = d.opts.MinSpeed
	}
	return math.Max(d.opts.MinSpeed, math.Min(v, d.opts.MaxSpeed))
}

// OnProgress handles one playback clock report. In sync mode it resolves
// the active line and eases the viewport toward it. It returns whether the
// highlight was updated.
func (d *Driver) OnProgress(s clock.Sample) bool {
	d.syncActive = s.Playing
	if d.mode != ModeSync || !(s.Duration > 0) {
		return false
	}
	d.pos = d.resolver.Resolve(s.Time, s.Duration, d.offset)
	if d.pos.Line >= 0 {
		d.scrollToward(d.pos.Line)
	}
	return true
}

func (d *Driver) scrollToward(line int) {
	if d.view == nil {
		return
	}
	lineTop, ok := d.view.LineTop(line)
	if !ok {
		return
	}
	client := d.view.ClientHeight()
	maxTop := math.Max(0, d.view.ScrollHeight()-client)
	target := math.Max(0, math.Min(lineTop-client*d.opts.AnchorRatio, maxTop))

	cur := d.view.ScrollTop()
	d.view.SetScrollTop(cur + (target-cur)*d.opts.Damping)
}

// NudgeOffset shifts the estimated timeline by delta seconds. Calibrated
// songs ignore the offset.
func (d *Driver) NudgeOffset(delta float64) bool {
	if d.resolver.Calibrated() {
		return false
	}
	d.setOffset(d.offset + delta)
	return true
}

// TapLyricsStart sets the offset to the clock time at which singing starts.
func (d *Driver) TapLyricsStart(s clock.Sample) bool {
	if d.resolver.Calibrated() {
		return false
	}
	d.setOffset(s.Time)
	return true
}

func (d *Driver) setOffset(v float64) {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	d.offset = v
	if d.store == nil {
		return
	}
	if err := d.store.SaveOffset(d.songID, v); err != nil {
		d.log.Warn("save offset failed", "offset", v, "err", err)
	}
}

// ApplyCalibration installs timestamps from a calibration session and
// persists them. An empty slice behaves like ClearCalibration.
func (d *Driver) ApplyCalibration(ts []resolve.LineTimestamp) {
	if len(ts) == 0 {
		d.ClearCalibration()
		return
	}
	d.resolver.SetTimestamps(ts)
	if d.store == nil {
		return
	}
	if err := d.store.SaveTimestamps(d.songID, ts); err != nil {
		d.log.Warn("save timestamps failed", "lines", len(ts), "err", err)
	}
}

func (d *Driver) ClearCalibration() {
	d.resolver.SetTimestamps(nil)
	if d.store == nil {
		return
	}
	if err := d.store.ClearTimestamps(d.songID); err != nil {
		d.log.Warn("clear timestamps failed", "err", err)
	}
}

// SetContent replaces the song text, e.g. after an edit.
func (d *Driver) SetContent(content string) {
	d.resolver.SetContent(content)
	d.pos = resolve.None
}

// Close cancels any scheduled frame. The driver must not be used after.
func (d *Driver) Close() {
	d.loop.stop()
}
