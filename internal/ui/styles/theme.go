// Package styles holds the color theme and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Story ring gradient stops, from the first to the last cluster.
	RingFrom lipgloss.Color
	RingMid  lipgloss.Color
	RingTo   lipgloss.Color

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgBase   lipgloss.Color
	BgCursor lipgloss.Color

	// Progress segments
	SegmentFill  lipgloss.Color
	SegmentTrack lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Cursor  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	SegmentFill  lipgloss.Style
	SegmentTrack lipgloss.Style
	Close        lipgloss.Style
}

var defaultTheme = Theme{
	// Warm story ring: orange to magenta
	RingFrom: lipgloss.Color("#feda75"),
	RingMid:  lipgloss.Color("#fa7e1e"),
	RingTo:   lipgloss.Color("#d62976"),

	FgBase:   lipgloss.Color("#e0e0e0"),
	FgMuted:  lipgloss.Color("#909090"),
	FgSubtle: lipgloss.Color("#585858"),

	BgBase:   lipgloss.Color("#111111"),
	BgCursor: lipgloss.Color("#303030"),

	SegmentFill:  lipgloss.Color("#f5f5f5"),
	SegmentTrack: lipgloss.Color("#4a4a4a"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#d62976"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Error:        lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Warning:      lipgloss.NewStyle().Foreground(t.Warning),
		SegmentFill:  lipgloss.NewStyle().Foreground(t.SegmentFill),
		SegmentTrack: lipgloss.NewStyle().Foreground(t.SegmentTrack),
		Close:        lipgloss.NewStyle().Foreground(t.FgBase).Bold(true),
	}
}
