package core

import (
	"math"
	"strings"
)

// Cell represents a single character cell on the canvas.
type Cell struct {
	Rune  rune
	Color Color
}

// Canvas is a 2D character buffer that maps a world-space rectangle onto
// character cells. The console uses it to draw a coarse arena map.
type Canvas struct {
	width  int
	height int
	world  Rect
	cells  [][]Cell
}

// NewCanvas creates a width x height buffer covering the given world rect.
func NewCanvas(width, height int, world Rect) *Canvas {
	c := &Canvas{
		width:  max(width, 1),
		height: max(height, 1),
		world:  world,
	}
	c.allocate()
	c.Clear()
	return c
}

func (c *Canvas) allocate() {
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the canvas dimensions and clears it.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear fills the entire canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a default-colored rune at the given cell.
// Out-of-bounds cells are ignored.
func (c *Canvas) Set(x, y int, r rune) {
	c.SetColor(x, y, r, ColorDefault)
}

// SetColor places a colored rune at the given cell.
func (c *Canvas) SetColor(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Cell{Rune: r, Color: color}
}

// Get returns the rune at the given cell, or space when out of bounds.
func (c *Canvas) Get(x, y int) rune {
	return c.Cell(x, y).Rune
}

// Cell returns the cell at (x, y), or a blank cell when out of bounds.
func (c *Canvas) Cell(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// Project maps a world point to a cell. Row 0 is the top of the world rect.
func (c *Canvas) Project(wx, wy float64) (int, int) {
	if c.world.W <= 0 || c.world.H <= 0 {
		return 0, 0
	}
	fx := (wx - c.world.X) / c.world.W
	fy := (c.world.Top() - wy) / c.world.H
	x := int(math.Floor(fx * float64(c.width)))
	y := int(math.Floor(fy * float64(c.height)))
	return Clamp(x, 0, c.width-1), Clamp(y, 0, c.height-1)
}

// Plot places a rune at the cell covering a world point.
func (c *Canvas) Plot(wx, wy float64, r rune, color Color) {
	x, y := c.Project(wx, wy)
	c.SetColor(x, y, r, color)
}

// FillWorld fills every cell covered by a world rectangle.
func (c *Canvas) FillWorld(r Rect, fill rune, color Color) {
	x0, y1 := c.Project(r.X, r.Y)
	x1, y0 := c.Project(r.Right(), r.Top())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.SetColor(x, y, fill, color)
		}
	}
}

// DrawText writes a string horizontally starting at (x, y).
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	for i, r := range []rune(text) {
		c.SetColor(x+i, y, r, color)
	}
}

// DrawTextCentered writes a string centered on row y.
func (c *Canvas) DrawTextCentered(y int, text string, color Color) {
	x := (c.width - len([]rune(text))) / 2
	c.DrawText(x, y, text, color)
}

// String returns the canvas content as newline-separated rows.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow((c.width + 1) * c.height)
	for y := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range c.cells[y] {
			sb.WriteRune(cell.Rune)
		}
	}
	return sb.String()
}
