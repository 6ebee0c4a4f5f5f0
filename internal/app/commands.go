package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui/avatar"
)

const (
	// progressInterval is the refresh rate of the segment animation.
	progressInterval = 100 * time.Millisecond

	// transmitHold keeps an image transmission in the view long enough for
	// the renderer to flush at least one frame containing it.
	transmitHold = 200 * time.Millisecond
)

// LoadCatalogCmd loads the catalog in the background.
func LoadCatalogCmd(ctx context.Context, loader CatalogLoader) tea.Cmd {
	return func() tea.Msg {
		c, err := loader.Load(ctx)
		return CatalogLoadedMsg{Catalog: c, Err: err}
	}
}

// WatchInstructions waits for the next batch on sub. It must be re-armed
// after each InstructionsMsg.
func WatchInstructions(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case b := <-sub.Instructions:
			return InstructionsMsg{Sub: sub, Batch: b}
		case <-sub.Done:
			return ServiceClosedMsg{Sub: sub}
		}
	}
}

// FetchMediaCmd fetches the story image for token.
func FetchMediaCmd(ctx context.Context, f MediaFetcher, token playback.LoadToken, url string, widthCells, heightCells int) tea.Cmd {
	return func() tea.Msg {
		img, err := f.Fetch(ctx, url, widthCells, heightCells)
		return MediaFetchedMsg{Token: token, Image: img, Err: err}
	}
}

// FetchAvatarCmd fetches a profile picture and renders it for the header.
func FetchAvatarCmd(ctx context.Context, f MediaFetcher, url string) tea.Cmd {
	return func() tea.Msg {
		img, err := f.Fetch(ctx, url, avatar.Cols, 1)
		if err != nil {
			return AvatarFetchedMsg{URL: url, Err: err}
		}
		rendered, err := avatar.Render(img.PNG, avatar.Cols)
		return AvatarFetchedMsg{URL: url, Avatar: rendered, Err: err}
	}
}

// ProgressTickCmd schedules the next animation frame for sequence seq.
func ProgressTickCmd(seq int) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return ProgressTickMsg{Seq: seq}
	})
}

// TransmitSentCmd clears the pending transmission for seq after a few frames.
func TransmitSentCmd(seq int) tea.Cmd {
	return tea.Tick(transmitHold, func(time.Time) tea.Msg {
		return TransmitSentMsg{Seq: seq}
	})
}
