package physics

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"
	"gonum.org/v1/gonum/spatial/r2"
)

// Manifold is one contact patch between two colliders.
// Normal points out of Collider2 toward Collider1, so moving Collider1 by
// Depth*Normal separates the pair.
type Manifold struct {
	Depth  float64
	Normal r2.Vec
}

// ContactPair is an overlap between the queried collider (Collider1) and another.
type ContactPair struct {
	Collider1 ColliderID
	Collider2 ColliderID
	manifolds []Manifold
	active    bool
}

// HasActiveContact reports whether the pair produces a solid contact.
// Sensor overlaps and touching-only pairs are inactive.
func (p ContactPair) HasActiveContact() bool {
	return p.active
}

// Manifolds returns the contact patches of the pair.
func (p ContactPair) Manifolds() []Manifold {
	return p.manifolds
}

// ContactPairsWith lists the colliders overlapping id whose filters interact
// with it, ordered by the other collider's ID. A shape lying wholly inside
// another counts as overlapping even though no edges cross.
func (w *World) ContactPairsWith(id ColliderID) []ContactPair {
	c := w.Collider(id)
	if c == nil {
		return nil
	}

	candidates := c.shape.SelectTouchingCells(1).FilterShapes().Shapes()
	seen := make(map[ColliderID]bool)
	var pairs []ContactPair
	c.shape.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: candidates,
		OnIntersect: func(set resolv.IntersectionSet) bool {
			otherID, ok := w.interacting(c, id, set.OtherShape)
			if !ok {
				return true
			}
			seen[otherID] = true
			pairs = append(pairs, w.newPair(id, otherID, r2.Vec{X: set.MTV.X, Y: set.MTV.Y}))
			return true
		},
	})

	self := w.bodies[c.Parent].Position
	candidates.ForEach(func(sh resolv.IShape) bool {
		otherID, ok := w.interacting(c, id, sh)
		if !ok || seen[otherID] {
			return true
		}
		other := &w.colliders[otherID]
		pos := w.bodies[other.Parent].Position
		if !contained(c.Shape, self, other.Shape, pos) {
			return true
		}
		seen[otherID] = true
		pairs = append(pairs, w.newPair(id, otherID, containmentMTV(c.Shape, self, other.Shape, pos)))
		return true
	})

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Collider2 < pairs[j].Collider2 })
	return pairs
}

// interacting maps a broad-phase shape to a live collider other than id
// whose filter interacts with c.
func (w *World) interacting(c *Collider, id ColliderID, sh resolv.IShape) (ColliderID, bool) {
	otherID, ok := w.byShape[sh]
	if !ok || otherID == id {
		return -1, false
	}
	if !c.Filter.Interacts(w.colliders[otherID].Filter) {
		return -1, false
	}
	return otherID, true
}

func (w *World) newPair(id, otherID ColliderID, mtv r2.Vec) ContactPair {
	depth := r2.Norm(mtv)
	return ContactPair{
		Collider1: id,
		Collider2: otherID,
		manifolds: []Manifold{{Depth: depth, Normal: UnitOrZero(mtv)}},
		active:    depth > 0 && !w.colliders[id].Sensor && !w.colliders[otherID].Sensor,
	}
}

// contained reports whether either shape lies wholly inside the other.
func contained(a Shape, pa r2.Vec, b Shape, pb r2.Vec) bool {
	return shapeInside(a, pa, b, pb) || shapeInside(b, pb, a, pa)
}

func shapeInside(inner Shape, pi r2.Vec, outer Shape, po r2.Vec) bool {
	if outer.Kind == ShapeCircle {
		reach := inner.Radius
		if inner.Kind == ShapeBox {
			reach = math.Hypot(inner.HalfW, inner.HalfH)
		}
		return r2.Norm(r2.Sub(pi, po))+reach <= outer.Radius
	}
	ib := inner.Bounds(pi.X, pi.Y)
	ob := outer.Bounds(po.X, po.Y)
	return ib.X >= ob.X && ib.Right() <= ob.Right() && ib.Y >= ob.Y && ib.Top() <= ob.Top()
}

// containmentMTV is the shortest axis-aligned move of a that clears b's bounds.
func containmentMTV(a Shape, pa r2.Vec, b Shape, pb r2.Vec) r2.Vec {
	ab := a.Bounds(pa.X, pa.Y)
	bb := b.Bounds(pb.X, pb.Y)
	moves := [...]r2.Vec{
		{X: bb.Right() - ab.X},
		{X: bb.X - ab.Right()},
		{Y: bb.Top() - ab.Y},
		{Y: bb.Y - ab.Top()},
	}
	best := moves[0]
	for _, m := range moves[1:] {
		if r2.Norm(m) < r2.Norm(best) {
			best = m
		}
	}
	return best
}

type pairKey struct {
	a, b ColliderID
}

func newPairKey(a, b ColliderID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// CollisionEvent reports that two colliders started overlapping this step.
// A is the lower collider ID.
type CollisionEvent struct {
	A, B   ColliderID
	Sensor bool
}

// CollisionEvents returns the pairs that began overlapping since the last
// call. Only pairs where at least one collider has Events set are tracked.
func (w *World) CollisionEvents() []CollisionEvent {
	now := make(map[pairKey]bool)
	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.alive || !c.Events {
			continue
		}
		for _, p := range w.ContactPairsWith(ColliderID(i)) {
			now[newPairKey(p.Collider1, p.Collider2)] = true
		}
	}

	var started []CollisionEvent
	for k := range now {
		if w.touching[k] {
			continue
		}
		started = append(started, CollisionEvent{
			A:      k.a,
			B:      k.b,
			Sensor: w.colliders[k.a].Sensor || w.colliders[k.b].Sensor,
		})
	}
	w.touching = now

	sort.Slice(started, func(i, j int) bool {
		if started[i].A != started[j].A {
			return started[i].A < started[j].A
		}
		return started[i].B < started[j].B
	})
	return started
}
