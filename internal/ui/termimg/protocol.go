// Package termimg draws story images in the terminal using the Kitty or
// Sixel graphics protocols.
package termimg

import "strings"

// Protocol abstracts the terminal image display protocol.
type Protocol interface {
	// Name is the protocol name as used in the configuration.
	Name() string

	// Prepare takes PNG data and returns any one-time terminal command.
	// Kitty: transmits to terminal memory, returns escape sequences.
	// Sixel: encodes and caches internally, returns empty string.
	Prepare(pngData []byte, id uint32) (string, error)

	// Place returns the escape sequence to display the image at (row, col).
	// Kitty: references by ID.
	// Sixel: emits full image data with cursor positioning.
	Place(id uint32, row, col, width, height int) string

	// Delete returns the escape sequence to remove the image.
	Delete(id uint32) string

	// TargetPixelSize returns the pixel box an image shown in the given
	// number of cells should be resized to.
	TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int)
}

// Placeholder returns blank space for the image area, so that lipgloss
// measures the layout without seeing any image escapes.
func Placeholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
