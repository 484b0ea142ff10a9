package physics

import (
	"github.com/solarlune/resolv"

	"github.com/vovakirdan/brickdungeon/internal/core"
)

// ShapeKind distinguishes collider geometry.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape is collider geometry centered on its body.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // circle
	HalfW  float64 // box
	HalfH  float64 // box
}

// Circle returns a circle of radius r.
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Box returns a box with the given half extents.
func Box(halfW, halfH float64) Shape {
	return Shape{Kind: ShapeBox, HalfW: halfW, HalfH: halfH}
}

// Bounds returns the shape's bounding box when centered at (cx, cy).
func (s Shape) Bounds(cx, cy float64) core.Rect {
	if s.Kind == ShapeCircle {
		return core.RectAround(cx, cy, s.Radius, s.Radius)
	}
	return core.RectAround(cx, cy, s.HalfW, s.HalfH)
}

// newResolvShape creates the narrow-phase shape at a space-local center.
func (s Shape) newResolvShape(cx, cy float64) resolv.IShape {
	if s.Kind == ShapeCircle {
		return resolv.NewCircle(cx, cy, s.Radius)
	}
	return resolv.NewRectangleFromTopLeft(cx-s.HalfW, cy-s.HalfH, 2*s.HalfW, 2*s.HalfH)
}
