package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/errmsg"
)

// handleLoadingMsg routes loading-related messages.
func (m Model) handleLoadingMsg(msg LoadingMessage) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(CatalogLoadedMsg); ok {
		return m.handleCatalogLoaded(msg)
	}
	return m, nil
}

// handleCatalogLoaded starts a playback service for the new catalog. A
// failed load leaves the app without a service: only the fallback message
// is shown.
func (m Model) handleCatalogLoaded(msg CatalogLoadedMsg) (tea.Model, tea.Cmd) {
	clearCmd := m.queueTransmit(m.stopService())

	if msg.Err != nil {
		m.state = catalogFailed
		m.loadErr = msg.Err
		m.list.SetUsers(nil)
		m.logger.Error(errmsg.Title(errmsg.OpCatalogLoad),
			"source", m.loader.Source(),
			"error", msg.Err,
		)
		return m, clearCmd
	}

	m.state = catalogReady
	m.loadErr = nil
	m.status = ""
	m.list.SetUsers(msg.Catalog)
	for _, issue := range msg.Catalog.Validate() {
		m.logger.Warn("catalog entry", "user", issue.UserIndex, "issue", issue.Kind.String())
	}
	m.logger.Info("catalog loaded", "users", msg.Catalog.Len())

	m.svc = m.newSvc(msg.Catalog)
	m.sub = m.svc.Subscribe()
	return m, tea.Batch(clearCmd, WatchInstructions(m.sub))
}

// reload loads the catalog again. The current service keeps running until
// the new catalog arrives.
func (m Model) reload() (Model, tea.Cmd) {
	if m.viewer.Visible() {
		return m, nil
	}
	m.state = catalogLoading
	m.logger.Info("reloading catalog", "source", m.loader.Source())
	return m, LoadCatalogCmd(m.ctx, m.loader)
}

// stopService shuts the current service down and forgets its subscription,
// so its pending watcher is recognized as stale. It returns the output that
// removes any image left on screen.
func (m *Model) stopService() string {
	if m.svc == nil {
		return ""
	}
	m.svc.Shutdown()
	m.svc = nil
	m.sub = nil
	m.cancelMediaFetch()
	return m.renderer.Clear()
}
