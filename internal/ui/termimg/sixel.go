package termimg

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-sixel"
)

// placeCounter makes every Place output unique. Bubble Tea's renderer skips
// unchanged lines, which would leave a sixel image half erased after the
// progress bar redraws around it.
var placeCounter atomic.Uint64

// Sixel implements Protocol with Sixel graphics. Sixel has no image memory
// in the terminal, so encoded images are kept here and re-sent on every
// placement.
type Sixel struct {
	mu     sync.RWMutex
	images map[uint32]string
	cellW  int
	cellH  int
}

// NewSixel creates a Sixel protocol using the terminal's cell size.
func NewSixel() *Sixel {
	w, h := cellSize()
	return newSixel(w, h)
}

func newSixel(cellW, cellH int) *Sixel {
	return &Sixel{
		images: make(map[uint32]string),
		cellW:  cellW,
		cellH:  cellH,
	}
}

// Name implements Protocol.
func (s *Sixel) Name() string { return "sixel" }

// Prepare implements Protocol.
func (s *Sixel) Prepare(pngData []byte, id uint32) (string, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", fmt.Errorf("decode png: %w", err)
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = true
	if err := enc.Encode(img); err != nil {
		return "", fmt.Errorf("encode sixel: %w", err)
	}

	s.mu.Lock()
	s.images[id] = buf.String()
	s.mu.Unlock()

	return "", nil
}

// Place implements Protocol.
func (s *Sixel) Place(id uint32, row, col, _, _ int) string {
	s.mu.RLock()
	data, ok := s.images[id]
	s.mu.RUnlock()
	if !ok {
		return ""
	}

	// The counter goes into a no-op SGR so the string differs every frame.
	seq := placeCounter.Add(1)
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	sb.WriteString(data)
	fmt.Fprintf(&sb, "\x1b[u\x1b[%dm\x1b[0m", seq%255+1)
	return sb.String()
}

// Delete implements Protocol.
func (s *Sixel) Delete(id uint32) string {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
	return ""
}

// TargetPixelSize implements Protocol. Sixel draws at native size, so the
// real cell size is used and one row is left free to keep the terminal from
// scrolling when the image touches the bottom.
func (s *Sixel) TargetPixelSize(widthCells, heightCells int) (int, int) {
	return widthCells * s.cellW, max(heightCells-1, 1) * s.cellH
}
