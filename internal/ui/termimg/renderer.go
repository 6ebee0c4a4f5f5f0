package termimg

import (
	"sync"
	"sync/atomic"
)

var nextImageID atomic.Uint32

// Renderer tracks the story image currently held by the terminal.
// A Renderer with a nil protocol draws nothing.
type Renderer struct {
	mu    sync.RWMutex
	proto Protocol

	url string
	id  uint32

	// Footprint of the current image in cells.
	cols int
	rows int
}

// NewRenderer creates a renderer for p, which may be nil.
func NewRenderer(p Protocol) *Renderer {
	return &Renderer{proto: p}
}

// Enabled reports whether images can be drawn at all.
func (r *Renderer) Enabled() bool {
	return r != nil && r.proto != nil
}

// ProtocolName returns the active protocol name, or "none".
func (r *Renderer) ProtocolName() string {
	if !r.Enabled() {
		return string(ModeNone)
	}
	return r.proto.Name()
}

// TargetPixelSize returns the pixel box for an image shown in the given
// cells. It lets the renderer size media fetches.
func (r *Renderer) TargetPixelSize(widthCells, heightCells int) (int, int) {
	if !r.Enabled() {
		return widthCells * defaultCellWidth, heightCells * defaultCellHeight
	}
	return r.proto.TargetPixelSize(widthCells, heightCells)
}

// Show prepares the PNG for url, replacing the previous image. It returns
// the terminal output that must be written once before the next placement.
// Showing the current url again is a no-op.
func (r *Renderer) Show(url string, pngData []byte, pixelW, pixelH int) (string, error) {
	if !r.Enabled() {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id > 0 && r.url == url {
		return "", nil
	}

	var out string
	if r.id > 0 {
		out = r.proto.Delete(r.id)
	}

	id := nextImageID.Add(1)
	cmd, err := r.proto.Prepare(pngData, id)
	if err != nil {
		r.url, r.id, r.cols, r.rows = "", 0, 0, 0
		return out, err
	}

	// One cell in pixels; both protocols report it for a 1x1 box.
	cellW, cellH := r.proto.TargetPixelSize(1, 1)
	r.url = url
	r.id = id
	r.cols = ceilDiv(pixelW, cellW)
	r.rows = ceilDiv(pixelH, cellH)

	return out + cmd, nil
}

// URL returns the url of the current image.
func (r *Renderer) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.url
}

// HasImage reports whether an image is ready to be placed.
func (r *Renderer) HasImage() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id > 0
}

// Size returns the footprint of the current image in cells.
func (r *Renderer) Size() (cols, rows int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cols, r.rows
}

// Placement returns the command that draws the current image with its top
// left corner at the 1-based (row, col) cell.
func (r *Renderer) Placement(row, col int) string {
	if !r.Enabled() {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.id == 0 {
		return ""
	}
	return r.proto.Place(r.id, row, col, r.cols, r.rows)
}

// Clear forgets the current image and returns the command that removes it.
func (r *Renderer) Clear() string {
	if !r.Enabled() {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out string
	if r.id > 0 {
		out = r.proto.Delete(r.id)
	}
	r.url, r.id, r.cols, r.rows = "", 0, 0, 0
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 || a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
