// Package viewer renders the full-screen story viewer from the instructions
// published by the playback service.
package viewer

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui"
	"github.com/llehouerou/stories/internal/ui/segments"
)

// Rows of the viewer layout.
const (
	segmentRow = 0
	headerRow  = 1
	imageTop   = 3
)

// closeWidth is the clickable width of the close mark at the end of the
// header row.
const closeWidth = 3

// Zone is a clickable region of the viewer.
type Zone int

const (
	ZoneNone Zone = iota
	ZonePrevious
	ZoneNext
	ZoneClose
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZonePrevious:
		return "previous"
	case ZoneNext:
		return "next"
	case ZoneClose:
		return "close"
	default:
		return "unknown"
	}
}

// Model is the viewer state as seen by the terminal. It is only changed by
// applying instructions; it never decides what to show next.
type Model struct {
	ui.Base

	visible  bool
	graphics bool

	header   playback.SetHeader
	avatar   string
	segments []playback.SegmentState
	loading  bool
	spinner  spinner.Model

	pendingURL string
	pending    playback.LoadToken
	fetched    *media.Image
	shown      *media.Image

	progressIndex int
	progressStart time.Time
	progressDur   time.Duration
	progress      float64

	skipped int
}

// New creates a hidden viewer.
func New() Model {
	return Model{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle()),
		),
		progressIndex: -1,
	}
}

// SetGraphics records whether the terminal can draw images. Without
// graphics the image area shows a text card instead.
func (m *Model) SetGraphics(enabled bool) {
	m.graphics = enabled
}

// Visible reports whether the viewer is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Loading reports whether the loading indicator is on.
func (m Model) Loading() bool {
	return m.loading
}

// Header returns the current header.
func (m Model) Header() playback.SetHeader {
	return m.header
}

// HasAvatar reports whether the profile picture of the current header is
// drawn.
func (m Model) HasAvatar() bool {
	return m.avatar != ""
}

// SetAvatar stores the rendered profile picture for url. It is dropped
// unless url is the current header's picture.
func (m *Model) SetAvatar(url, rendered string) bool {
	if !m.visible || url == "" || url != m.header.ProfilePicture {
		return false
	}
	m.avatar = rendered
	return true
}

// Segments returns a copy of the segment states.
func (m Model) Segments() []playback.SegmentState {
	out := make([]playback.SegmentState, len(m.segments))
	copy(out, m.segments)
	return out
}

// Pending returns the url and token of the media being loaded.
func (m Model) Pending() (string, playback.LoadToken) {
	return m.pendingURL, m.pending
}

// Image returns the image marked ready, or nil.
func (m Model) Image() *media.Image {
	return m.shown
}

// Skipped returns how many stories were skipped since the viewer opened.
func (m Model) Skipped() int {
	return m.skipped
}

// Progress returns the fill of the animating segment.
func (m Model) Progress() float64 {
	return m.progress
}

// Animating reports whether a segment is still filling.
func (m Model) Animating() bool {
	return m.visible && m.progressDur > 0 && m.progress < 1
}

// Apply updates the model for one instruction. now is the time the batch
// was received and starts progress animations.
func (m *Model) Apply(in playback.Instruction, now time.Time) {
	switch in := in.(type) {
	case playback.ShowViewer:
		m.visible = true
		m.skipped = 0
	case playback.HideViewer:
		m.reset()
	case playback.SetHeader:
		if in.ProfilePicture != m.header.ProfilePicture {
			m.avatar = ""
		}
		m.header = in
	case playback.RenderSegments:
		m.segments = make([]playback.SegmentState, max(in.Count, 0))
		m.stopProgress()
	case playback.UpdateSegment:
		if in.Index >= 0 && in.Index < len(m.segments) {
			m.segments[in.Index] = in.State
		}
	case playback.ShowLoading:
		m.loading = true
	case playback.HideLoading:
		m.loading = false
	case playback.SetImageSource:
		m.pendingURL = in.URL
		m.pending = in.Token
		m.fetched = nil
		m.shown = nil
		m.stopProgress()
	case playback.MarkImageReady:
		if in.Token == m.pending && m.fetched != nil {
			m.shown = m.fetched
		}
	case playback.StartProgress:
		m.progressIndex = in.Index
		m.progressStart = now
		m.progressDur = in.Duration
		m.progress = 0
	case playback.MediaSkipped:
		m.skipped++
	}
}

// SetFetched stores the fetched image for token. It returns false when the
// token no longer matches the pending load.
func (m *Model) SetFetched(token playback.LoadToken, img *media.Image) bool {
	if token != m.pending || token.IsZero() {
		return false
	}
	m.fetched = img
	return true
}

// Tick advances the progress animation to now.
func (m *Model) Tick(now time.Time) {
	if m.progressDur <= 0 {
		return
	}
	m.progress = segments.Progress(m.progressStart, m.progressDur, now)
}

// SpinnerTick starts the loading spinner.
func (m Model) SpinnerTick() tea.Cmd {
	return m.spinner.Tick
}

// Update animates the spinner while loading.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !m.loading || !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return m, cmd
}

// ImageArea returns the cell box reserved for the story image.
func (m Model) ImageArea() (x, y, width, height int) {
	return 0, imageTop, m.Width(), max(m.Height()-ui.ViewerChrome, 0)
}

// ImageOrigin returns the 1-based terminal (row, col) where an image of
// cols x rows cells is placed so it is centered in the image area.
func (m Model) ImageOrigin(cols, rows int) (row, col int) {
	x, y, w, h := m.ImageArea()
	return y + max((h-rows)/2, 0) + 1, x + max((w-cols)/2, 0) + 1
}

// HitTest returns the zone under (x, y). The close mark wins over the
// navigation thirds; the middle third is inert.
func (m Model) HitTest(x, y int) Zone {
	w, h := m.Size()
	if !m.visible || x < 0 || y < 0 || x >= w || y >= h {
		return ZoneNone
	}
	if y == headerRow && x >= w-closeWidth {
		return ZoneClose
	}
	third := w / 3
	switch {
	case x < third:
		return ZonePrevious
	case x >= w-third:
		return ZoneNext
	default:
		return ZoneNone
	}
}

func (m *Model) reset() {
	spin := m.spinner
	graphics := m.graphics
	base := m.Base
	*m = New()
	m.spinner = spin
	m.graphics = graphics
	m.Base = base
}

func (m *Model) stopProgress() {
	m.progressIndex = -1
	m.progressStart = time.Time{}
	m.progressDur = 0
	m.progress = 0
}
