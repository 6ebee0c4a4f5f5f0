// Package segments renders the per-story progress bar at the top of the
// viewer.
package segments

import (
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/ui/styles"
)

const (
	barBlock = "━"
	gap      = " "
)

// Progress returns how far an animation that started at start and lasts d
// has gone at now, clamped to [0, 1].
func Progress(start time.Time, d time.Duration, now time.Time) float64 {
	if d <= 0 || start.IsZero() {
		return 0
	}
	ratio := float64(now.Sub(start)) / float64(d)
	return min(max(ratio, 0), 1)
}

// Render draws one segment per story on a single line of width cells.
// Completed segments are full, the animating one is filled to progress, the
// others show only the track. When the line is too narrow for one cell per
// segment a "current/total" counter is drawn instead.
func Render(states []playback.SegmentState, progress float64, width int) string {
	n := len(states)
	if n == 0 || width <= 0 {
		return ""
	}

	avail := width - (n - 1)
	if avail < n {
		return counter(states, width)
	}

	s := styles.T().S()
	base, extra := avail/n, avail%n

	var b strings.Builder
	for i, st := range states {
		w := base
		if i < extra {
			w++
		}

		filled := 0
		switch st {
		case playback.SegmentCompleted:
			filled = w
		case playback.SegmentAnimating:
			filled = min(int(float64(w)*progress), w)
		case playback.SegmentEmpty, playback.SegmentActive:
		}

		if i > 0 {
			b.WriteString(gap)
		}
		if filled > 0 {
			b.WriteString(s.SegmentFill.Render(strings.Repeat(barBlock, filled)))
		}
		if w-filled > 0 {
			b.WriteString(s.SegmentTrack.Render(strings.Repeat(barBlock, w-filled)))
		}
	}
	return b.String()
}

func counter(states []playback.SegmentState, width int) string {
	current := 0
	for i, st := range states {
		if st == playback.SegmentActive || st == playback.SegmentAnimating {
			current = i + 1
		}
	}
	text := fmt.Sprintf("%d/%d", current, len(states))
	if len(text) > width {
		return ""
	}
	return styles.T().S().Muted.Render(text)
}
