package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
)

// fakeController records the commands sent to the playback service.
type fakeController struct {
	mu       sync.Mutex
	calls    []string
	openErr  error
	loaded   []playback.LoadToken
	failed   []playback.LoadToken
	sub      *playback.Subscription
	batches  chan playback.Batch
	done     chan struct{}
	shutdown bool
}

func newFakeController() *fakeController {
	f := &fakeController{
		batches: make(chan playback.Batch, 8),
		done:    make(chan struct{}),
	}
	f.sub = &playback.Subscription{Instructions: f.batches, Done: f.done}
	return f
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) Open(i int) error {
	f.record(fmt.Sprintf("open %d", i))
	return f.openErr
}
func (f *fakeController) Close()         { f.record("close") }
func (f *fakeController) NextStory()     { f.record("next") }
func (f *fakeController) PreviousStory() { f.record("previous") }

func (f *fakeController) MediaLoaded(tok playback.LoadToken) {
	f.record("loaded")
	f.loaded = append(f.loaded, tok)
}

func (f *fakeController) MediaFailed(tok playback.LoadToken, _ error) {
	f.record("failed")
	f.failed = append(f.failed, tok)
}

func (f *fakeController) Subscribe() *playback.Subscription { return f.sub }

func (f *fakeController) Shutdown() {
	if !f.shutdown {
		f.shutdown = true
		close(f.done)
	}
}

type fakeLoader struct {
	source string
	cat    catalog.Catalog
	err    error
}

func (l fakeLoader) Source() string { return l.source }

func (l fakeLoader) Load(context.Context) (catalog.Catalog, error) {
	return l.cat, l.err
}

type fakeFetcher struct {
	img *media.Image
	err error
}

func (f fakeFetcher) Fetch(ctx context.Context, src string, _, _ int) (*media.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	img := *f.img
	img.URL = src
	return &img, nil
}

// fakeRenderer is an enabled renderer that returns readable commands.
type fakeRenderer struct {
	shown []string
	url   string
}

func (r *fakeRenderer) Enabled() bool        { return true }
func (r *fakeRenderer) ProtocolName() string { return "fake" }
func (r *fakeRenderer) HasImage() bool       { return r.url != "" }
func (r *fakeRenderer) Size() (int, int)     { return 10, 4 }

func (r *fakeRenderer) Show(url string, _ []byte, _, _ int) (string, error) {
	if url == "broken" {
		return "", errors.New("bad image")
	}
	r.shown = append(r.shown, url)
	r.url = url
	return "<tx " + url + ">", nil
}

func (r *fakeRenderer) Placement(row, col int) string {
	if r.url == "" {
		return ""
	}
	return fmt.Sprintf("<place %d,%d>", row, col)
}

func (r *fakeRenderer) Clear() string {
	if r.url == "" {
		return ""
	}
	r.url = ""
	return "<clear>"
}

func twoUsers() catalog.Catalog {
	return catalog.Catalog{
		{DisplayName: "alice", ProfilePicture: "https://example.com/a.jpg", Stories: []string{"a1", "a2"}},
		{DisplayName: "bob", ProfilePicture: "https://example.com/b.jpg", Stories: []string{"b1"}},
	}
}

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type testEnv struct {
	svc      *fakeController
	renderer *fakeRenderer
	clock    *clockwork.FakeClock
}

// newTestModel returns a sized model with the catalog already loaded into a
// fake controller.
func newTestModel(t *testing.T, c catalog.Catalog) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		svc:      newFakeController(),
		renderer: &fakeRenderer{},
		clock:    clockwork.NewFakeClockAt(testNow),
	}
	m := New(t.Context(), Deps{
		Loader:     fakeLoader{source: "stories.json", cat: c},
		Fetcher:    fakeFetcher{img: &media.Image{PNG: []byte("png"), Width: 80, Height: 64}},
		Renderer:   env.renderer,
		NewService: func(catalog.Catalog) Controller { return env.svc },
		Clock:      env.clock,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, CatalogLoadedMsg{Catalog: c})
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, _ = updateCmd(t, m, msg)
	return m
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok, "Update should return Model")
	return result, cmd
}

// publish delivers b as if the service had published it.
func publish(t *testing.T, m Model, b ...playback.Instruction) (Model, tea.Cmd) {
	t.Helper()
	return updateCmd(t, m, InstructionsMsg{Sub: m.sub, Batch: b})
}

// openBatch mirrors the engine output for opening user 0 of twoUsers.
func openBatch(tok playback.LoadToken) playback.Batch {
	return playback.Batch{
		playback.ShowViewer{},
		playback.SetHeader{UserIndex: 0, DisplayName: "alice"},
		playback.RenderSegments{Count: 2},
		playback.UpdateSegment{Index: 0, State: playback.SegmentActive},
		playback.ShowLoading{},
		playback.SetImageSource{URL: "a1", Token: tok},
	}
}

func readyBatch(tok playback.LoadToken) playback.Batch {
	return playback.Batch{
		playback.HideLoading{},
		playback.MarkImageReady{Token: tok},
		playback.UpdateSegment{Index: tok.StoryIndex, State: playback.SegmentAnimating},
		playback.StartProgress{Index: tok.StoryIndex, Duration: 5 * time.Second},
	}
}
