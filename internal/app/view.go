package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/ui"
	"github.com/llehouerou/stories/internal/ui/render"
	"github.com/llehouerou/stories/internal/ui/styles"
)

// Story strip position on the list screen: title row, blank row, strip.
const (
	stripTop    = 2
	stripLeft   = 0
	stripHeight = ui.ChipHeight
)

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var view string
	switch {
	case m.viewer.Visible():
		hints := m.help.ShortHelpView(m.viewerKeys.Help().ShortHelp())
		view = m.viewer.View(hints)
	case m.state == catalogFailed:
		view = m.renderFailure()
	default:
		view = m.renderList()
	}

	view = enforceHeight(view, m.height)

	// Pending image transmission goes first so placements can refer to it.
	if m.transmit != "" {
		view = m.transmit + view
	}
	view += m.imagePlacement()

	return view
}

// imagePlacement returns the command that draws the story image centered
// in the viewer's image area.
func (m Model) imagePlacement() string {
	if !m.viewer.Visible() || m.viewer.Image() == nil || !m.renderer.HasImage() {
		return ""
	}
	row, col := m.viewer.ImageOrigin(m.renderer.Size())
	return m.renderer.Placement(row, col)
}

func (m Model) renderTitle() string {
	s := styles.T().S()
	title := " " + styles.RingGradient("stories")
	var source string
	if m.loader != nil {
		source = render.Truncate(m.loader.Source(), max(m.width-lipgloss.Width(title)-3, 0))
	}
	return render.Row(title, s.Subtle.Render(source)+" ", m.width)
}

func (m Model) renderList() string {
	s := styles.T().S()
	lines := []string{m.renderTitle(), ""}

	if m.state == catalogLoading && m.list.Users() == nil {
		lines = append(lines, s.Muted.Render(" Loading stories…"))
	} else {
		lines = append(lines, strings.Split(m.list.View(), "\n")...)
	}

	for len(lines) < stripTop+stripHeight {
		lines = append(lines, "")
	}
	lines = append(lines, "")
	if m.status != "" {
		lines = append(lines, s.Error.Render(" "+render.Truncate(m.status, m.width-1)))
	}

	body := strings.Join(lines, "\n")
	footer := m.help.View(m.listKeys.Help())
	gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer)
	if gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + footer
}

// renderFailure shows the static fallback message. The error details go to
// the log.
func (m Model) renderFailure() string {
	s := styles.T().S()
	text := catalog.FailureMessage
	var lf *catalog.LoadFailure
	if errors.As(m.loadErr, &lf) {
		text = lf.Message()
	}
	msg := s.Error.Render(text)
	hint := s.Subtle.Render("r retry · q quit")
	box := lipgloss.JoinVertical(lipgloss.Center, msg, "", hint)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// enforceHeight ensures the view has exactly the specified number of lines.
func enforceHeight(view string, targetHeight int) string {
	lines := strings.Split(view, "\n")
	switch {
	case len(lines) < targetHeight:
		lines = append(lines, make([]string, targetHeight-len(lines))...)
	case len(lines) > targetHeight:
		lines = lines[:targetHeight]
	}
	return strings.Join(lines, "\n")
}
