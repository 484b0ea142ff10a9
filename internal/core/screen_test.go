package core

import (
	"strings"
	"testing"
)

func TestCanvasProject(t *testing.T) {
	c := NewCanvas(64, 18, RectAround(0, 0, 640, 360))

	tests := []struct {
		name   string
		wx, wy float64
		cx, cy int
	}{
		{"top-left corner", -640, 360, 0, 0},
		{"center", 0, 0, 32, 9},
		{"bottom-right clamps", 640, -360, 63, 17},
		{"outside clamps", 5000, 5000, 63, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := c.Project(tc.wx, tc.wy)
			if x != tc.cx || y != tc.cy {
				t.Errorf("Project(%v, %v) = (%d, %d), expected (%d, %d)", tc.wx, tc.wy, x, y, tc.cx, tc.cy)
			}
		})
	}
}

func TestCanvasFillWorld(t *testing.T) {
	c := NewCanvas(10, 10, NewRect(0, 0, 100, 100))
	c.FillWorld(NewRect(0, 0, 100, 10), '#', ColorGray)

	if c.Get(0, 9) != '#' || c.Get(9, 9) != '#' {
		t.Error("bottom row not filled")
	}
	if c.Get(0, 0) != ' ' {
		t.Error("top row should stay empty")
	}
	if c.Cell(5, 9).Color != ColorGray {
		t.Errorf("fill color = %d, expected gray", c.Cell(5, 9).Color)
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2, NewRect(0, 0, 3, 2))
	c.DrawText(0, 0, "abcd", ColorDefault)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("String() has %d rows, expected 2", len(lines))
	}
	if lines[0] != "abc" {
		t.Errorf("row 0 = %q, expected %q", lines[0], "abc")
	}
	c.Set(-1, 0, 'x')
	if c.Get(-1, 0) != ' ' {
		t.Error("out-of-bounds Get should return space")
	}
}

func TestCanvasTextCentered(t *testing.T) {
	c := NewCanvas(9, 1, NewRect(0, 0, 9, 1))
	c.DrawTextCentered(0, "abc", ColorRed)
	if got := c.String(); got != "   abc   " {
		t.Errorf("String() = %q", got)
	}
	if c.Cell(3, 0).Color != ColorRed || c.Cell(2, 0).Color != ColorDefault {
		t.Error("only the text cells should be colored")
	}
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(4, 4, NewRect(0, 0, 4, 4))
	c.Plot(1, 1, 'x', ColorRed)
	c.Resize(4, 4)
	if strings.Count(c.String(), "x") != 1 {
		t.Error("same-size Resize should keep content")
	}
	c.Resize(2, 2)
	if c.Width() != 2 || c.Height() != 2 || strings.Contains(c.String(), "x") {
		t.Errorf("Resize(2, 2) = %dx%d %q", c.Width(), c.Height(), c.String())
	}
}
