package styles

import "github.com/charmbracelet/lipgloss"

// ChipStyle returns the border style of a user chip in the story list.
// Openable users get the ring color, the cursor gets a thick border.
func ChipStyle(selected, openable bool) lipgloss.Style {
	t := T()
	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}

	color := t.FgSubtle
	switch {
	case openable && selected:
		color = t.BorderFocus
	case openable:
		color = t.RingTo
	case selected:
		color = t.FgMuted
	}

	return lipgloss.NewStyle().
		BorderStyle(border).
		BorderForeground(color).
		Padding(0, 1)
}
