package cursor

import "testing"

func TestNew(t *testing.T) {
	c := New(1)
	if c.Pos() != 0 {
		t.Errorf("New() pos = %d, want 0", c.Pos())
	}
	if c.Offset() != 0 {
		t.Errorf("New() offset = %d, want 0", c.Offset())
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		margin     int
		initial    int
		delta      int
		count      int
		visible    int
		wantPos    int
		wantOffset int
	}{
		{"right within window", 1, 0, 1, 10, 3, 1, 0},
		{"right scrolls with margin", 1, 1, 1, 10, 3, 2, 1},
		{"left clamps to 0", 1, 2, -5, 10, 3, 0, 0},
		{"right clamps to last", 1, 0, 50, 10, 3, 9, 7},
		{"all visible never scrolls", 1, 0, 4, 5, 8, 4, 0},
		{"margin larger than window", 5, 0, 2, 10, 2, 2, 1},
		{"empty strip is a no-op", 1, 0, 1, 0, 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.margin)
			c.Jump(tt.initial, tt.count, tt.visible)
			c.Move(tt.delta, tt.count, tt.visible)
			if c.Pos() != tt.wantPos {
				t.Errorf("pos = %d, want %d", c.Pos(), tt.wantPos)
			}
			if c.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", c.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestJumpEndAndStart(t *testing.T) {
	c := New(1)
	c.JumpEnd(10, 3)
	if c.Pos() != 9 || c.Offset() != 7 {
		t.Fatalf("JumpEnd() = (%d, %d), want (9, 7)", c.Pos(), c.Offset())
	}

	c.JumpStart()
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("JumpStart() = (%d, %d), want (0, 0)", c.Pos(), c.Offset())
	}
}

func TestFit(t *testing.T) {
	c := New(1)
	c.JumpEnd(10, 3)

	c.Fit(4, 3)
	if c.Pos() != 3 || c.Offset() != 1 {
		t.Errorf("Fit(4, 3) = (%d, %d), want (3, 1)", c.Pos(), c.Offset())
	}

	c.Fit(0, 3)
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("Fit(0, 3) = (%d, %d), want (0, 0)", c.Pos(), c.Offset())
	}
}

func TestVisibleRange(t *testing.T) {
	c := New(1)
	c.Jump(5, 10, 4)

	start, end := c.VisibleRange(10, 4)
	if start != c.Offset() || end != c.Offset()+4 {
		t.Errorf("VisibleRange() = [%d, %d), want [%d, %d)", start, end, c.Offset(), c.Offset()+4)
	}
	if c.Pos() < start || c.Pos() >= end {
		t.Errorf("cursor %d outside visible range [%d, %d)", c.Pos(), start, end)
	}

	if s, e := New(1).VisibleRange(0, 4); s != 0 || e != 0 {
		t.Errorf("VisibleRange(empty) = [%d, %d), want [0, 0)", s, e)
	}
}
