package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/app/handler"
	"github.com/llehouerou/stories/internal/errmsg"
	"github.com/llehouerou/stories/internal/keymap"
	"github.com/llehouerou/stories/internal/ui/action"
	"github.com/llehouerou/stories/internal/ui/storylist"
	"github.com/llehouerou/stories/internal/ui/viewer"
)

// handleKeyMsg resolves a key with the resolver of the focused screen and
// runs the handler chain.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	resolver := m.listKeys
	if m.viewer.Visible() {
		resolver = m.viewerKeys
	}
	a := resolver.Resolve(msg.String())

	_, cmd := handler.Chain(a,
		m.handleGlobalKeys,
		m.handleViewerKeys,
		m.handleListKeys,
	)
	return m, cmd
}

func (m *Model) handleGlobalKeys(a keymap.Action) handler.Result {
	switch a { //nolint:exhaustive // only global actions
	case keymap.ActionQuit:
		return handler.Handled(tea.Quit)
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return handler.HandledNoCmd
	default:
		return handler.NotHandled
	}
}

// Arrow keys and escape only drive the engine while the viewer is open.
func (m *Model) handleViewerKeys(a keymap.Action) handler.Result {
	if !m.viewer.Visible() || m.svc == nil {
		return handler.NotHandled
	}
	switch a { //nolint:exhaustive // only viewer actions
	case keymap.ActionPrevStory:
		m.svc.PreviousStory()
	case keymap.ActionNextStory:
		m.svc.NextStory()
	case keymap.ActionClose:
		m.svc.Close()
	default:
		return handler.NotHandled
	}
	return handler.HandledNoCmd
}

func (m *Model) handleListKeys(a keymap.Action) handler.Result {
	if m.viewer.Visible() {
		return handler.NotHandled
	}
	if m.state != catalogReady && a != keymap.ActionReload {
		return handler.NotHandled
	}
	var cmd tea.Cmd
	var handled bool
	m.list, cmd, handled = m.list.HandleAction(a)
	if !handled {
		return handler.NotHandled
	}
	return handler.Handled(cmd)
}

// handleMouseMsg routes clicks to the viewer zones or to the story strip.
// A navigation click is consumed by its zone and never reaches close.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.viewer.Visible() {
		if m.svc == nil || msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch m.viewer.HitTest(msg.X, msg.Y) {
		case viewer.ZonePrevious:
			m.svc.PreviousStory()
		case viewer.ZoneNext:
			m.svc.NextStory()
		case viewer.ZoneClose:
			m.svc.Close()
		case viewer.ZoneNone:
		}
		return m, nil
	}

	if m.state != catalogReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.HandleMouse(msg, msg.X-stripLeft, msg.Y-stripTop)
	return m, cmd
}

// handleAction applies an action reported by a component.
func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case storylist.OpenUser:
		if m.svc == nil {
			return m, nil
		}
		if err := m.svc.Open(a.Index); err != nil {
			m.logger.Error(errmsg.Title(errmsg.OpViewerOpen), "user", a.Index, "error", err)
			m.status = errmsg.Format(errmsg.OpViewerOpen, err)
			return m, nil
		}
		m.status = ""
		m.logger.Debug("open requested", "user", a.Index)
		return m, nil
	case storylist.Reload:
		var cmd tea.Cmd
		m, cmd = m.reload()
		return m, cmd
	}
	return m, nil
}
