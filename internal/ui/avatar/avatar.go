// Package avatar draws profile pictures as a row of half-block cells, so
// they show on any color terminal next to the graphics-protocol story image.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/llehouerou/stories/internal/ui/styles"
)

// Cols is the width of an avatar in cells. Each cell shows two pixels
// stacked with "▀", so an avatar is Cols x 2 pixels.
const Cols = 2

const halfBlock = "▀"

// Render draws the PNG as cols half-block cells on one row.
func Render(pngData []byte, cols int) (string, error) {
	if cols <= 0 {
		return "", nil
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", fmt.Errorf("decode avatar: %w", err)
	}
	return FromImage(img, cols), nil
}

// FromImage draws img as cols half-block cells on one row.
func FromImage(img image.Image, cols int) string {
	if cols <= 0 || img.Bounds().Empty() {
		return ""
	}
	small := resize.Resize(uint(cols), 2, img, resize.Bilinear) //nolint:gosec // cols is small and positive
	b := small.Bounds()

	var sb strings.Builder
	for x := range cols {
		top := cellColor(small, b.Min.X+x, b.Min.Y)
		bottom := cellColor(small, b.Min.X+x, b.Min.Y+1)
		sb.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render(halfBlock))
	}
	return sb.String()
}

// cellColor returns the pixel color, or the background for transparent
// pixels.
func cellColor(img image.Image, x, y int) lipgloss.Color {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return styles.T().BgBase
	}
	return lipgloss.Color(c.Hex())
}
