package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/stories/internal/errmsg"
	"github.com/llehouerou/stories/internal/playback"
)

// handlePlaybackMsg routes playback-related messages.
func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case InstructionsMsg:
		if msg.Sub != m.sub {
			return m, nil
		}
		cmd := m.applyBatch(msg.Batch)
		return m, tea.Batch(cmd, WatchInstructions(m.sub))

	case ServiceClosedMsg:
		if msg.Sub == m.sub {
			m.sub = nil
		}
		return m, nil

	case MediaFetchedMsg:
		return m.handleMediaFetched(msg)

	case AvatarFetchedMsg:
		if msg.Err != nil {
			m.logger.Debug("profile picture unavailable", "url", msg.URL, "error", msg.Err)
			return m, nil
		}
		m.viewer.SetAvatar(msg.URL, msg.Avatar)
		return m, nil

	case ProgressTickMsg:
		if msg.Seq != m.progressSeq {
			return m, nil
		}
		m.viewer.Tick(m.clock.Now())
		if m.viewer.Animating() {
			return m, ProgressTickCmd(m.progressSeq)
		}
		return m, nil

	case TransmitSentMsg:
		if msg.Seq == m.transmitSeq {
			m.transmit = ""
		}
		return m, nil
	}
	return m, nil
}

// applyBatch applies a published batch to the viewer in order and starts
// the side effects some instructions ask for.
func (m *Model) applyBatch(b playback.Batch) tea.Cmd {
	now := m.clock.Now()
	var cmds []tea.Cmd
	for _, in := range b {
		m.viewer.Apply(in, now)

		switch in := in.(type) {
		case playback.SetHeader:
			cmds = append(cmds, m.startAvatarFetch(in))
		case playback.SetImageSource:
			cmds = append(cmds, m.startMediaFetch(in))
		case playback.ShowLoading:
			cmds = append(cmds, m.viewer.SpinnerTick())
		case playback.MarkImageReady:
			cmds = append(cmds, m.showImage())
		case playback.StartProgress:
			m.progressSeq++
			cmds = append(cmds, ProgressTickCmd(m.progressSeq))
		case playback.HideViewer:
			m.cancelMediaFetch()
			m.progressSeq++
			cmds = append(cmds, m.queueTransmit(m.renderer.Clear()))
		case playback.MediaSkipped:
			m.logger.Debug("story skipped", "url", in.URL, "error", in.Err)
		}
	}
	return tea.Batch(cmds...)
}

// startMediaFetch cancels the previous fetch and starts one for in. The
// image is sized for the viewer's image area.
func (m *Model) startMediaFetch(in playback.SetImageSource) tea.Cmd {
	m.cancelMediaFetch()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel

	_, _, w, h := m.viewer.ImageArea()
	m.logger.Debug("fetching story", "url", in.URL, "user", in.Token.UserIndex, "story", in.Token.StoryIndex)
	return FetchMediaCmd(ctx, m.fetcher, in.Token, in.URL, max(w, 1), max(h, 1))
}

// startAvatarFetch loads the header's profile picture unless it is already
// drawn. Results for a previous header are dropped by the viewer.
func (m *Model) startAvatarFetch(in playback.SetHeader) tea.Cmd {
	if in.ProfilePicture == "" || m.fetcher == nil || m.viewer.HasAvatar() {
		return nil
	}
	return FetchAvatarCmd(m.ctx, m.fetcher, in.ProfilePicture)
}

func (m *Model) cancelMediaFetch() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// handleMediaFetched reports a fetch result to the service. Results for a
// superseded load are dropped here; the engine would reject them anyway.
func (m Model) handleMediaFetched(msg MediaFetchedMsg) (tea.Model, tea.Cmd) {
	if m.svc == nil {
		return m, nil
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.logger.Warn(errmsg.Title(errmsg.OpMediaLoad), "user", msg.Token.UserIndex, "story", msg.Token.StoryIndex, "error", msg.Err)
		m.svc.MediaFailed(msg.Token, msg.Err)
		return m, nil
	}

	if !m.viewer.SetFetched(msg.Token, msg.Image) {
		m.logger.Debug("stale story image dropped", "generation", msg.Token.Generation)
		return m, nil
	}
	m.logger.Debug("story image fetched",
		"url", msg.Image.URL,
		"size", humanize.Bytes(uint64(max(msg.Image.SourceBytes, 0))),
		"cached", msg.Image.Cached,
	)
	m.svc.MediaLoaded(msg.Token)
	return m, nil
}

// showImage hands the ready image to the terminal renderer.
func (m *Model) showImage() tea.Cmd {
	img := m.viewer.Image()
	if img == nil || !m.renderer.Enabled() {
		return nil
	}
	out, err := m.renderer.Show(img.URL, img.PNG, img.Width, img.Height)
	if err != nil {
		m.logger.Warn(errmsg.Title(errmsg.OpImageDisplay), "url", img.URL, "error", err)
		m.status = errmsg.Format(errmsg.OpImageDisplay, err)
	}
	return m.queueTransmit(out)
}

// queueTransmit prepends out to the next frames and schedules its removal.
func (m *Model) queueTransmit(out string) tea.Cmd {
	if out == "" {
		return nil
	}
	m.transmit += out
	m.transmitSeq++
	return TransmitSentCmd(m.transmitSeq)
}
