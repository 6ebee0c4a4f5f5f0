package app

import (
	"context"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui/termimg"
)

// Compile-time assertions that the real collaborators satisfy the interfaces.
var (
	_ Controller    = (*playback.Service)(nil)
	_ CatalogLoader = (*catalog.Loader)(nil)
	_ MediaFetcher  = (*media.Fetcher)(nil)
	_ ImageRenderer = (*termimg.Renderer)(nil)
)

// Controller drives the playback engine. All methods return immediately;
// the resulting instructions arrive on subscriptions.
type Controller interface {
	Open(userIndex int) error
	Close()
	NextStory()
	PreviousStory()
	MediaLoaded(token playback.LoadToken)
	MediaFailed(token playback.LoadToken, err error)
	Subscribe() *playback.Subscription
	Shutdown()
}

// CatalogLoader loads the story catalog.
type CatalogLoader interface {
	Source() string
	Load(ctx context.Context) (catalog.Catalog, error)
}

// MediaFetcher fetches a story image sized for a cell box.
type MediaFetcher interface {
	Fetch(ctx context.Context, src string, widthCells, heightCells int) (*media.Image, error)
}

// ImageRenderer draws the current story image with a terminal graphics
// protocol.
type ImageRenderer interface {
	Enabled() bool
	ProtocolName() string
	Show(url string, pngData []byte, pixelW, pixelH int) (string, error)
	HasImage() bool
	Size() (cols, rows int)
	Placement(row, col int) string
	Clear() string
}
