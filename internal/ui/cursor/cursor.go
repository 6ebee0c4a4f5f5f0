// Package cursor tracks the selected item and scroll window of the story
// strip.
package cursor

// Cursor manages the selected position and scroll offset of a strip of
// items. The item count and the number of visible items are passed to each
// method, since both change with the catalog and the terminal width.
type Cursor struct {
	pos    int // Selected item (0-indexed)
	offset int // First visible item
	margin int // Items kept visible on each side of the cursor
}

// New creates a Cursor with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected position.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible item.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the cursor by delta, clamped to [0, count).
// It is a no-op on an empty strip.
func (c *Cursor) Move(delta, count, visible int) {
	c.Jump(c.pos+delta, count, visible)
}

// Jump selects pos, clamped to [0, count).
func (c *Cursor) Jump(pos, count, visible int) {
	if count == 0 {
		return
	}
	c.pos = clamp(pos, count-1)
	c.scroll(count, visible)
}

// JumpStart selects the first item.
func (c *Cursor) JumpStart() {
	c.pos = 0
	c.offset = 0
}

// JumpEnd selects the last item.
func (c *Cursor) JumpEnd(count, visible int) {
	c.Jump(count-1, count, visible)
}

// Fit re-clamps the cursor after the strip changed size.
func (c *Cursor) Fit(count, visible int) {
	if count == 0 {
		c.JumpStart()
		return
	}
	c.Jump(c.pos, count, visible)
}

// VisibleRange returns the visible indices [start, end).
func (c Cursor) VisibleRange(count, visible int) (start, end int) {
	if count == 0 || visible <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+visible, count)
}

func (c *Cursor) scroll(count, visible int) {
	if visible <= 0 {
		return
	}
	margin := min(c.margin, (visible-1)/2)

	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+visible-margin {
		c.offset = c.pos - visible + margin + 1
	}
	c.offset = clamp(c.offset, max(count-visible, 0))
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
