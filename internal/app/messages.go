// Package app contains the root bubbletea model of the stories viewer.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
)

// Message category interfaces for type-based routing in Update().

// PlaybackMessage is implemented by messages coming from the playback
// service or carrying results it waits for.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// LoadingMessage is implemented by messages related to catalog loading.
type LoadingMessage interface {
	tea.Msg
	loadingMessage()
}

// CatalogLoadedMsg carries the result of a catalog load.
type CatalogLoadedMsg struct {
	Catalog catalog.Catalog
	Err     error
}

func (CatalogLoadedMsg) loadingMessage() {}

// InstructionsMsg carries one batch published by the playback service.
type InstructionsMsg struct {
	Sub   *playback.Subscription
	Batch playback.Batch
}

func (InstructionsMsg) playbackMessage() {}

// ServiceClosedMsg is sent when a subscription is closed.
type ServiceClosedMsg struct {
	Sub *playback.Subscription
}

func (ServiceClosedMsg) playbackMessage() {}

// MediaFetchedMsg carries the result of a story image fetch.
type MediaFetchedMsg struct {
	Token playback.LoadToken
	Image *media.Image
	Err   error
}

func (MediaFetchedMsg) playbackMessage() {}

// AvatarFetchedMsg carries a profile picture rendered for the header.
type AvatarFetchedMsg struct {
	URL    string
	Avatar string
	Err    error
}

func (AvatarFetchedMsg) playbackMessage() {}

// ProgressTickMsg advances the segment animation started by sequence Seq.
type ProgressTickMsg struct {
	Seq int
}

func (ProgressTickMsg) playbackMessage() {}

// TransmitSentMsg drops the image transmission once it has been drawn.
type TransmitSentMsg struct {
	Seq int
}

func (TransmitSentMsg) playbackMessage() {}
