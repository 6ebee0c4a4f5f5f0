// Package storylist renders the horizontal strip of users shown before a
// viewer is opened.
package storylist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/keymap"
	"github.com/llehouerou/stories/internal/ui"
	"github.com/llehouerou/stories/internal/ui/action"
	"github.com/llehouerou/stories/internal/ui/cursor"
	"github.com/llehouerou/stories/internal/ui/render"
	"github.com/llehouerou/stories/internal/ui/styles"
)

// Source is the action source name of the strip.
const Source = "storylist"

// OpenUser asks the app to open the viewer on a user.
type OpenUser struct {
	Index int
}

// ActionType implements action.Action.
func (OpenUser) ActionType() string { return "storylist.open_user" }

// Reload asks the app to load the catalog again.
type Reload struct{}

// ActionType implements action.Action.
func (Reload) ActionType() string { return "storylist.reload" }

// Model is the story strip.
type Model struct {
	ui.Base
	users  catalog.Catalog
	cursor cursor.Cursor
}

// New creates a strip for users.
func New(users catalog.Catalog) Model {
	return Model{
		users:  users,
		cursor: cursor.New(ui.StripMargin),
	}
}

// Users returns the listed users.
func (m Model) Users() catalog.Catalog {
	return m.users
}

// SetUsers replaces the listed users, keeping the cursor when possible.
func (m *Model) SetUsers(users catalog.Catalog) {
	m.users = users
	m.cursor.Fit(len(users), m.VisibleCount())
}

// SetSize sets the strip dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.Fit(len(m.users), m.VisibleCount())
}

// Selected returns the index of the user under the cursor, or -1.
func (m Model) Selected() int {
	if len(m.users) == 0 {
		return -1
	}
	return m.cursor.Pos()
}

// Select moves the cursor to index.
func (m *Model) Select(index int) {
	m.cursor.Jump(index, len(m.users), m.VisibleCount())
}

// VisibleCount returns how many chips fit in the strip width.
func (m Model) VisibleCount() int {
	return max((m.Width()+ui.ChipGap)/(ui.ChipWidth+ui.ChipGap), 1)
}

// HandleAction applies a list key action. The bool is false when the
// action does not concern the strip.
func (m Model) HandleAction(a keymap.Action) (Model, tea.Cmd, bool) {
	n, visible := len(m.users), m.VisibleCount()
	switch a { //nolint:exhaustive // viewer and global actions are not ours
	case keymap.ActionCursorLeft:
		m.cursor.Move(-1, n, visible)
	case keymap.ActionCursorRight:
		m.cursor.Move(1, n, visible)
	case keymap.ActionCursorFirst:
		m.cursor.JumpStart()
	case keymap.ActionCursorLast:
		m.cursor.JumpEnd(n, visible)
	case keymap.ActionOpen:
		return m, m.openCmd(m.Selected()), true
	case keymap.ActionReload:
		return m, action.Cmd(Source, Reload{}), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// HandleMouse handles a mouse event at (x, y), relative to the strip.
// A left click selects and opens the chip under the pointer; the wheel
// scrolls the cursor.
func (m Model) HandleMouse(msg tea.MouseMsg, x, y int) (Model, tea.Cmd) {
	n, visible := len(m.users), m.VisibleCount()
	switch msg.Button { //nolint:exhaustive // other buttons are ignored
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.cursor.Move(-1, n, visible)
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.cursor.Move(1, n, visible)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		idx, ok := m.HitTest(x, y)
		if !ok {
			return m, nil
		}
		m.cursor.Jump(idx, n, visible)
		return m, m.openCmd(idx)
	}
	return m, nil
}

// HitTest returns the user whose chip covers (x, y).
func (m Model) HitTest(x, y int) (int, bool) {
	if x < 0 || y < 0 || y >= ui.ChipHeight {
		return 0, false
	}
	stride := ui.ChipWidth + ui.ChipGap
	if x%stride >= ui.ChipWidth {
		return 0, false
	}
	start, end := m.cursor.VisibleRange(len(m.users), m.VisibleCount())
	idx := start + x/stride
	if idx >= end {
		return 0, false
	}
	return idx, true
}

// Users without stories stay listed but never open the viewer.
func (m Model) openCmd(idx int) tea.Cmd {
	if !m.users.Openable(idx) {
		return nil
	}
	return action.Cmd(Source, OpenUser{Index: idx})
}

// View renders the strip.
func (m Model) View() string {
	if m.Width() <= 0 {
		return ""
	}
	if len(m.users) == 0 {
		return styles.T().S().Muted.Render("No stories yet")
	}

	start, end := m.cursor.VisibleRange(len(m.users), m.VisibleCount())
	chips := make([]string, 0, 2*(end-start))
	for i := start; i < end; i++ {
		if i > start {
			chips = append(chips, strings.Repeat(" ", ui.ChipGap))
		}
		chips = append(chips, m.renderChip(i))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderChip(i int) string {
	u := m.users[i]
	selected := i == m.cursor.Pos()
	openable := m.users.Openable(i)
	inner := ui.ChipWidth - ui.BorderWidth - 2

	name := render.Truncate(u.DisplayName, inner)
	if name == "" {
		name = "?"
	}
	switch {
	case openable:
		name = styles.RingGradient(name)
	default:
		name = styles.T().S().Subtle.Render(name)
	}

	count := storyCount(u.StoryCount())
	if selected {
		count = styles.T().S().Base.Render(count)
	} else {
		count = styles.T().S().Muted.Render(count)
	}

	body := render.Center(name, inner) + "\n" + render.Center(count, inner)
	return styles.ChipStyle(selected, openable).Width(ui.ChipWidth - ui.BorderWidth).Render(body)
}

func storyCount(n int) string {
	switch n {
	case 0:
		return "no stories"
	case 1:
		return "1 story"
	default:
		return fmt.Sprintf("%d stories", n)
	}
}
