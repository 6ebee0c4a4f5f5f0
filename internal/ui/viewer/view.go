package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui"
	"github.com/llehouerou/stories/internal/ui/render"
	"github.com/llehouerou/stories/internal/ui/segments"
	"github.com/llehouerou/stories/internal/ui/styles"
	"github.com/llehouerou/stories/internal/ui/termimg"
)

const (
	avatarMark = "◉"
	closeMark  = "✕"
)

func spinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().RingTo)
}

// View renders the viewer. hints is drawn on the left of the footer.
// When an image is ready and graphics are enabled, the image area is left
// blank for the terminal placement.
func (m Model) View(hints string) string {
	w, h := m.Size()
	if !m.visible || w <= 0 || h <= 0 {
		return ""
	}

	lines := make([]string, 0, h)
	lines = append(lines,
		segments.Render(m.segments, m.segmentProgress(), w),
		m.renderHeader(w),
		"",
	)

	_, _, areaW, areaH := m.ImageArea()
	if areaH > 0 {
		lines = append(lines, strings.Split(m.renderImageArea(areaW, areaH), "\n")...)
	}
	lines = append(lines, m.renderFooter(hints, w))

	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func (m Model) segmentProgress() float64 {
	for _, st := range m.segments {
		if st == playback.SegmentAnimating {
			return m.progress
		}
	}
	return 0
}

func (m Model) renderHeader(width int) string {
	s := styles.T().S()
	right := s.Close.Render(closeMark)
	if width < ui.MinViewerWidth {
		return render.Row("", right, width)
	}

	avatar := m.avatar
	if avatar == "" {
		avatar = lipgloss.NewStyle().Foreground(styles.T().RingFrom).Render(avatarMark)
	}
	nameWidth := width - lipgloss.Width(avatar) - closeWidth - 4
	name := styles.RingGradient(render.Truncate(m.header.DisplayName, nameWidth))

	left := " " + avatar + " " + name
	if m.loading {
		left += " " + m.spinner.View()
	}
	return render.Row(left, right+" ", width)
}

func (m Model) renderImageArea(width, height int) string {
	s := styles.T().S()
	switch {
	case m.shown != nil && m.graphics:
		return termimg.Placeholder(width, height)
	case m.shown != nil:
		card := strings.Join([]string{
			s.Title.Render("story image"),
			s.Muted.Render(fmt.Sprintf("%d×%d", m.shown.Width, m.shown.Height)),
			s.Subtle.Render(render.Truncate(m.shown.URL, width-2)),
		}, "\n")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	case m.loading:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+s.Muted.Render("loading"))
	default:
		return termimg.Placeholder(width, height)
	}
}

func (m Model) renderFooter(hints string, width int) string {
	s := styles.T().S()

	var parts []string
	if n := len(m.segments); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.current()+1, n))
	}
	if m.shown != nil && m.shown.SourceBytes > 0 {
		parts = append(parts, humanize.Bytes(uint64(m.shown.SourceBytes))) //nolint:gosec // checked positive above
	}
	if m.skipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", m.skipped)))
	}
	right := s.Muted.Render(strings.Join(parts, " · "))

	left := render.TruncateStyled(hints, max(width-lipgloss.Width(right)-1, 0))
	return render.Row(left, right, width)
}

// current returns the index of the story being shown or loaded.
func (m Model) current() int {
	for i, st := range m.segments {
		if st == playback.SegmentActive || st == playback.SegmentAnimating {
			return i
		}
	}
	return max(m.pending.StoryIndex, 0)
}
