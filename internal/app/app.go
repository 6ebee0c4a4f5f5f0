package app

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/keymap"
	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui/storylist"
	"github.com/llehouerou/stories/internal/ui/termimg"
	"github.com/llehouerou/stories/internal/ui/viewer"
)

type catalogState int

const (
	catalogLoading catalogState = iota
	catalogReady
	catalogFailed
)

// ServiceFactory creates the playback controller for a loaded catalog.
type ServiceFactory func(catalog.Catalog) Controller

// Deps are the collaborators of the application model.
type Deps struct {
	Loader     CatalogLoader
	Fetcher    MediaFetcher
	Renderer   ImageRenderer
	NewService ServiceFactory
	Clock      clockwork.Clock
	Logger     *slog.Logger
}

// Model is the root application model.
type Model struct {
	ctx      context.Context
	loader   CatalogLoader
	fetcher  MediaFetcher
	renderer ImageRenderer
	newSvc   ServiceFactory
	clock    clockwork.Clock
	logger   *slog.Logger

	state   catalogState
	loadErr error

	list   storylist.Model
	viewer viewer.Model

	svc Controller
	sub *playback.Subscription

	listKeys   *keymap.Resolver
	viewerKeys *keymap.Resolver
	help       help.Model

	// Cancels the in-flight media fetch.
	cancelFetch context.CancelFunc

	progressSeq int

	// Terminal graphics output that must precede the next frames.
	transmit    string
	transmitSeq int

	status string

	width, height int
}

// New creates the application model. ctx bounds every background load.
func New(ctx context.Context, deps Deps) Model {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Renderer == nil {
		deps.Renderer = termimg.NewRenderer(nil)
	}

	v := viewer.New()
	v.SetGraphics(deps.Renderer.Enabled())

	return Model{
		ctx:        ctx,
		loader:     deps.Loader,
		fetcher:    deps.Fetcher,
		renderer:   deps.Renderer,
		newSvc:     deps.NewService,
		clock:      deps.Clock,
		logger:     deps.Logger,
		state:      catalogLoading,
		list:       storylist.New(nil),
		viewer:     v,
		listKeys:   keymap.ForList(),
		viewerKeys: keymap.ForViewer(),
		help:       help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.logger.Info("loading catalog", "source", m.loader.Source())
	return LoadCatalogCmd(m.ctx, m.loader)
}

// Shutdown stops the playback service and any media fetch. Call it with the
// final model once the program exits.
func (m Model) Shutdown() {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	if m.svc != nil {
		m.svc.Shutdown()
	}
}

// Catalog returns the loaded catalog.
func (m Model) Catalog() catalog.Catalog {
	return m.list.Users()
}

// LoadError returns the last catalog load error.
func (m Model) LoadError() error {
	return m.loadErr
}

// ViewerOpen reports whether the story viewer is shown.
func (m Model) ViewerOpen() bool {
	return m.viewer.Visible()
}
