package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui/action"
	"github.com/llehouerou/stories/internal/ui/storylist"
	"github.com/llehouerou/stories/internal/ui/testutil"
)

func TestInit_LoadsCatalog(t *testing.T) {
	c := twoUsers()
	m := New(t.Context(), Deps{Loader: fakeLoader{source: "stories.json", cat: c}})

	msg := testutil.ExecuteCmd(m.Init())

	loaded, ok := msg.(CatalogLoadedMsg)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Equal(t, c, loaded.Catalog)
}

func TestCatalogFailure_ShowsFallbackWithoutService(t *testing.T) {
	created := false
	m := New(t.Context(), Deps{
		Loader:     fakeLoader{source: "stories.json"},
		NewService: func(catalog.Catalog) Controller { created = true; return newFakeController() },
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := updateCmd(t, m, CatalogLoadedMsg{Err: &catalog.LoadFailure{Source: "stories.json", Err: errors.New("404")}})

	assert.Nil(t, cmd)
	assert.False(t, created)
	assert.Nil(t, m.svc)
	assert.Error(t, m.LoadError())
	assert.True(t, testutil.ContainsLine(m.View(), catalog.FailureMessage))
}

func TestCatalogFailure_EnterDoesNothing(t *testing.T) {
	m := New(t.Context(), Deps{Loader: fakeLoader{source: "stories.json"}})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, CatalogLoadedMsg{Err: errors.New("boom")})

	_, cmd := updateCmd(t, m, testutil.Key("enter"))

	assert.Nil(t, cmd)
}

func TestCatalogFailure_Retry(t *testing.T) {
	m := New(t.Context(), Deps{Loader: fakeLoader{source: "stories.json", cat: twoUsers()}})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, CatalogLoadedMsg{Err: errors.New("boom")})

	m, cmd := updateCmd(t, m, testutil.Key("r"))
	require.NotNil(t, cmd)
	msg := testutil.ExecuteCmd(cmd)
	m, cmd = updateCmd(t, m, msg)
	require.NotNil(t, cmd)

	assert.Equal(t, catalogLoading, m.state)
	loaded, ok := testutil.ExecuteCmd(cmd).(CatalogLoadedMsg)
	require.True(t, ok)
	assert.Len(t, loaded.Catalog, 2)
}

func TestCatalogLoaded_StartsService(t *testing.T) {
	m, env := newTestModel(t, twoUsers())

	assert.Same(t, env.svc.sub, m.sub)
	assert.Equal(t, catalogReady, m.state)
	assert.Len(t, m.Catalog(), 2)
	view := m.View()
	assert.True(t, testutil.ContainsLine(view, "alice"))
	assert.True(t, testutil.ContainsLine(view, "bob"))
	assert.Len(t, strings.Split(view, "\n"), 24)
}

func TestCatalogReload_ReplacesService(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	old := m.sub
	next := newFakeController()
	m.newSvc = func(catalog.Catalog) Controller { return next }

	m = update(t, m, CatalogLoadedMsg{Catalog: twoUsers()[:1]})

	assert.True(t, env.svc.shutdown)
	assert.Same(t, next.sub, m.sub)
	assert.Len(t, m.Catalog(), 1)

	// The old watcher reports the closed subscription, which is ignored.
	m = update(t, m, ServiceClosedMsg{Sub: old})
	assert.Same(t, next.sub, m.sub)
}

func TestListKeys_EnterOpensSelectedUser(t *testing.T) {
	m, env := newTestModel(t, twoUsers())

	m = update(t, m, testutil.Key("right"))
	m, cmd := updateCmd(t, m, testutil.Key("enter"))
	require.NotNil(t, cmd)
	msg := testutil.ExecuteCmd(cmd)
	assert.Equal(t, action.Msg{Source: storylist.Source, Action: storylist.OpenUser{Index: 1}}, msg)

	update(t, m, msg)

	assert.Equal(t, []string{"open 1"}, env.svc.Calls())
}

func TestListKeys_ArrowsDoNotDriveEngine(t *testing.T) {
	m, env := newTestModel(t, twoUsers())

	m = update(t, m, testutil.Key("left"))
	update(t, m, testutil.Key("esc"))

	assert.Empty(t, env.svc.Calls())
}

func TestOpenError_ShowsStatus(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	env.svc.openErr = playback.ErrInvalidIndex

	m = update(t, m, action.Msg{Source: storylist.Source, Action: storylist.OpenUser{Index: 7}})

	assert.True(t, testutil.ContainsLine(m.View(), "Failed to open stories"))
}

func TestViewerKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"left", "previous"},
		{"h", "previous"},
		{"right", "next"},
		{"l", "next"},
		{"esc", "close"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, env := newTestModel(t, twoUsers())
			m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)
			require.True(t, m.ViewerOpen())

			update(t, m, testutil.Key(tt.key))

			assert.Equal(t, []string{tt.want}, env.svc.Calls())
		})
	}
}

func TestViewerKeys_EnterIgnored(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)

	_, cmd := updateCmd(t, m, testutil.Key("enter"))

	assert.Nil(t, cmd)
	assert.Empty(t, env.svc.Calls())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())

	_, cmd := updateCmd(t, m, testutil.Key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())
	short := m.View()

	m = update(t, m, testutil.Key("?"))

	assert.True(t, m.help.ShowAll)
	assert.NotEqual(t, short, m.View())
	assert.True(t, testutil.ContainsLine(m.View(), "ctrl+c"))
}

func TestViewerMouse(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want []string
	}{
		{"left third goes back", 3, 10, []string{"previous"}},
		{"right third goes forward", 70, 10, []string{"next"}},
		{"close mark closes", 79, 1, []string{"close"}},
		{"middle is inert", 40, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, env := newTestModel(t, twoUsers())
			m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)

			update(t, m, testutil.Click(tt.x, tt.y))

			assert.Equal(t, tt.want, env.svc.Calls())
		})
	}
}

func TestViewerMouse_ReleaseIgnored(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)
	click := testutil.Click(3, 10)
	click.Action = tea.MouseActionRelease

	update(t, m, click)

	assert.Empty(t, env.svc.Calls())
}

func TestListMouse_ClickOpens(t *testing.T) {
	m, env := newTestModel(t, twoUsers())

	_, cmd := updateCmd(t, m, testutil.Click(stripLeft+1, stripTop+1))
	require.NotNil(t, cmd)
	update(t, m, testutil.ExecuteCmd(cmd))

	assert.Equal(t, []string{"open 0"}, env.svc.Calls())
}

func TestInstructions_FromStaleSubscriptionIgnored(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())
	stale := newFakeController().sub

	m, cmd := updateCmd(t, m, InstructionsMsg{Sub: stale, Batch: playback.Batch{playback.ShowViewer{}}})

	assert.Nil(t, cmd)
	assert.False(t, m.ViewerOpen())
}

func TestInstructions_ApplyOpen(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}

	m, cmd := publish(t, m, openBatch(tok)...)

	assert.NotNil(t, cmd)
	assert.True(t, m.ViewerOpen())
	url, pending := m.viewer.Pending()
	assert.Equal(t, "a1", url)
	assert.Equal(t, tok, pending)
	assert.NotNil(t, m.cancelFetch)
	assert.True(t, testutil.ContainsLine(m.View(), "alice"))
}

func TestMediaFetched_ReportsLoaded(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)

	update(t, m, MediaFetchedMsg{Token: tok, Image: &media.Image{URL: "a1", PNG: []byte("png")}})

	assert.Equal(t, []string{"loaded"}, env.svc.Calls())
	assert.Equal(t, []playback.LoadToken{tok}, env.svc.loaded)
}

func TestMediaFetched_ReportsFailure(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)

	update(t, m, MediaFetchedMsg{Token: tok, Err: errors.New("http 404")})

	assert.Equal(t, []string{"failed"}, env.svc.Calls())
	assert.Equal(t, []playback.LoadToken{tok}, env.svc.failed)
}

func TestMediaFetched_CanceledIsSilent(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)

	update(t, m, MediaFetchedMsg{Token: tok, Err: context.Canceled})

	assert.Empty(t, env.svc.Calls())
}

func TestMediaFetched_StaleDropped(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 2, StoryIndex: 1})...)

	update(t, m, MediaFetchedMsg{Token: playback.LoadToken{Generation: 1}, Image: &media.Image{URL: "a1"}})

	assert.Empty(t, env.svc.Calls())
}

func TestMarkImageReady_TransmitsAndPlaces(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)
	m = update(t, m, MediaFetchedMsg{Token: tok, Image: &media.Image{URL: "a1", PNG: []byte("png"), Width: 80, Height: 64}})

	m, _ = publish(t, m, readyBatch(tok)...)

	assert.Equal(t, []string{"a1"}, env.renderer.shown)
	view := m.View()
	assert.True(t, strings.HasPrefix(view, "<tx a1>"))
	row, col := m.viewer.ImageOrigin(env.renderer.Size())
	assert.True(t, strings.HasSuffix(view, fmt.Sprintf("<place %d,%d>", row, col)))

	m = update(t, m, TransmitSentMsg{Seq: m.transmitSeq})
	assert.False(t, strings.HasPrefix(m.View(), "<tx"))
}

func TestMarkImageReady_DisplayErrorShowsStatus(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)
	m = update(t, m, MediaFetchedMsg{Token: tok, Image: &media.Image{URL: "broken"}})

	m, _ = publish(t, m, readyBatch(tok)...)

	assert.Empty(t, env.renderer.shown)
	assert.Contains(t, m.status, "Failed to display story image")
}

func TestHideViewer_ClearsImage(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)
	m = update(t, m, MediaFetchedMsg{Token: tok, Image: &media.Image{URL: "a1"}})
	m, _ = publish(t, m, readyBatch(tok)...)
	m = update(t, m, TransmitSentMsg{Seq: m.transmitSeq})

	m, _ = publish(t, m, playback.HideLoading{}, playback.HideViewer{})

	assert.False(t, m.ViewerOpen())
	assert.False(t, env.renderer.HasImage())
	assert.Nil(t, m.cancelFetch)
	assert.True(t, strings.HasPrefix(m.View(), "<clear>"))
	assert.NotContains(t, m.View(), "<place")
}

func TestProgressTick(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)
	m, _ = publish(t, m, readyBatch(tok)...)
	seq := m.progressSeq

	env.clock.Advance(2500 * time.Millisecond)
	m, cmd := updateCmd(t, m, ProgressTickMsg{Seq: seq})

	assert.NotNil(t, cmd)
	assert.InDelta(t, 0.5, m.viewer.Progress(), 1e-9)

	_, cmd = updateCmd(t, m, ProgressTickMsg{Seq: seq - 1})
	assert.Nil(t, cmd, "ticks of an older animation stop")
}

func TestSpinnerIgnoredWhenClosed(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())

	_, cmd := updateCmd(t, m, m.viewer.SpinnerTick()())

	assert.Nil(t, cmd)
}

func TestShutdown(t *testing.T) {
	m, env := newTestModel(t, twoUsers())
	m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)

	m.Shutdown()

	assert.True(t, env.svc.shutdown)
}

func TestAvatar_DrawnInHeader(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())
	tok := playback.LoadToken{Generation: 1}
	m, _ = publish(t, m, openBatch(tok)...)
	m, _ = publish(t, m, playback.SetHeader{UserIndex: 0, DisplayName: "alice", ProfilePicture: "https://example.com/a.jpg"})

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	f := fakeFetcher{img: &media.Image{PNG: buf.Bytes(), Width: 4, Height: 4}}

	msg := FetchAvatarCmd(t.Context(), f, "https://example.com/a.jpg")()
	fetched, ok := msg.(AvatarFetchedMsg)
	require.True(t, ok)
	require.NoError(t, fetched.Err)
	assert.Equal(t, "https://example.com/a.jpg", fetched.URL)

	m = update(t, m, fetched)

	assert.True(t, m.viewer.HasAvatar())
	assert.Contains(t, testutil.StripANSI(m.View()), "▀▀ alice")
}

func TestAvatar_FailureKeepsMark(t *testing.T) {
	m, _ := newTestModel(t, twoUsers())
	m, _ = publish(t, m, openBatch(playback.LoadToken{Generation: 1})...)
	m, _ = publish(t, m, playback.SetHeader{UserIndex: 0, DisplayName: "alice", ProfilePicture: "https://example.com/a.jpg"})

	msg := FetchAvatarCmd(t.Context(), fakeFetcher{err: errors.New("http 404")}, "https://example.com/a.jpg")()
	m = update(t, m, msg)

	assert.False(t, m.viewer.HasAvatar())
	assert.Contains(t, testutil.StripANSI(m.View()), "◉ alice")
}
