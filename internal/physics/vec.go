package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec builds an r2.Vec.
func Vec(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// UnitOrZero returns the unit vector of v, or the zero vector when v has no length.
func UnitOrZero(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// LerpVec interpolates linearly between a and b.
func LerpVec(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// FromAngle returns the unit vector at angle rad from the +x axis.
func FromAngle(rad float64) r2.Vec {
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}
