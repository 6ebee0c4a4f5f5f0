package termimg

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"

	// Max base64 bytes per escape sequence.
	kittyChunkSize = 4096
)

// Kitty implements Protocol with the Kitty graphics protocol. Images are
// transmitted once and then placed by ID.
type Kitty struct{}

// Name implements Protocol.
func (Kitty) Name() string { return "kitty" }

// Prepare implements Protocol.
func (Kitty) Prepare(pngData []byte, id uint32) (string, error) {
	if len(pngData) == 0 {
		return "", fmt.Errorf("transmit image %d: no data", id)
	}
	return transmitPNG(pngData, id), nil
}

// Place implements Protocol.
func (Kitty) Place(id uint32, row, col, width, height int) string {
	return placeImage(id, row, col, width, height)
}

// Delete implements Protocol.
func (Kitty) Delete(id uint32) string {
	return deleteImage(id)
}

// TargetPixelSize implements Protocol. Kitty scales the image to the
// placement box, so the standard cell size is enough.
func (Kitty) TargetPixelSize(widthCells, heightCells int) (int, int) {
	return widthCells * defaultCellWidth, heightCells * defaultCellHeight
}

// transmitPNG builds the chunked transmit-only command (a=t) for PNG data.
func transmitPNG(pngData []byte, id uint32) string {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	var sb strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			// f=100: PNG, q=2: suppress responses
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String()
}

// placeImage positions a transmitted image at the 1-based (row, col) cell,
// scaled to width x height cells. The fixed placement ID replaces any
// previous placement so moving the image leaves no ghost.
func placeImage(id uint32, row, col, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")
	return sb.String()
}

// deleteImage frees the image and all of its placements.
func deleteImage(id uint32) string {
	return fmt.Sprintf("%sa=d,d=I,i=%d,q=2;%s", escStart, id, escEnd)
}
