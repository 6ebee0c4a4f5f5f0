// Package ui provides shared UI constants and utilities.
package ui

// Layout constants shared by the story strip and the viewer.
const (
	// BorderWidth is the horizontal space consumed by a rounded border.
	BorderWidth = 2

	// StripMargin is the number of chips kept visible on each side of the
	// cursor when the strip scrolls.
	StripMargin = 1

	// ChipWidth is the outer width of one user chip, border included.
	ChipWidth = 16

	// ChipHeight is the outer height of one user chip, border included.
	ChipHeight = 4

	// ChipGap is the number of columns between two chips.
	ChipGap = 1

	// ViewerChrome is the number of viewer rows that are not image:
	// segments, header, separator and footer.
	ViewerChrome = 4

	// MinViewerWidth is the narrowest viewer that still draws a header.
	MinViewerWidth = 20
)
