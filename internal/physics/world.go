// Package physics is the dungeon's rigid-body adapter: an arena of bodies and
// colliders addressed by index, backed by a resolv space for contact queries.
// It integrates kinematic bodies and reports contacts; all collision response
// is left to callers.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/solarlune/resolv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/core"
)

// ErrMissingComponent is returned when a body or collider lacks data a
// caller requires, such as a material on a contacted collider.
var ErrMissingComponent = errors.New("physics: missing component")

// BodyID indexes a body in its World. IDs are never reused.
type BodyID int

// ColliderID indexes a collider in its World. IDs are never reused.
type ColliderID int

// BodyKind selects how a body is moved.
type BodyKind int

const (
	KindFixed             BodyKind = iota // never moves
	KindKinematicVelocity                 // moved by Integrate from its velocity
	KindKinematicPosition                 // moved only by SetPosition
)

// Velocity is a body's linear (world units/s) and angular (rad/s) velocity.
type Velocity struct {
	Linear  r2.Vec
	Angular float64
}

// MassProperties carries mass and principal inertia.
type MassProperties struct {
	Mass    float64
	Inertia float64
}

// Material carries friction and restitution coefficients.
type Material struct {
	Friction    float64
	Restitution float64
}

// Body is a rigid body. Velocity is nil for bodies that carry none.
type Body struct {
	Kind      BodyKind
	Position  r2.Vec
	Velocity  *Velocity
	Tags      Tag
	Colliders []ColliderID
	alive     bool
}

// Collider is a shape attached to a body. Material and Mass may be nil.
type Collider struct {
	Parent   BodyID
	Shape    Shape
	Filter   Filter
	Sensor   bool
	Events   bool // report started contacts through CollisionEvents
	Material *Material
	Mass     *MassProperties
	Index    int // user index, e.g. door number

	shape  resolv.IShape
	offset resolv.Vector // resolv position minus space-local center
	alive  bool
}

// BodyDesc describes a body to spawn.
type BodyDesc struct {
	Kind     BodyKind
	Position r2.Vec
	Velocity *Velocity
	Tags     Tag
}

// ColliderDesc describes a collider to attach.
type ColliderDesc struct {
	Shape    Shape
	Filter   Filter
	Sensor   bool
	Events   bool
	Material *Material
	Mass     *MassProperties
	Index    int
}

// World stores bodies and colliders in dense slices.
type World struct {
	bodies    []Body
	colliders []Collider
	space     *resolv.Space
	origin    r2.Vec // world position of the space's (0, 0)
	byShape   map[resolv.IShape]ColliderID
	touching  map[pairKey]bool
}

// DefaultCellSize is the broad-phase grid cell size.
const DefaultCellSize = 32

// NewWorld creates a world whose broad phase covers bounds.
func NewWorld(bounds core.Rect, cellSize int) *World {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	w := int(math.Ceil(bounds.W))
	h := int(math.Ceil(bounds.H))
	return &World{
		space:    resolv.NewSpace(w, h, cellSize, cellSize),
		origin:   r2.Vec{X: bounds.X, Y: bounds.Y},
		byShape:  make(map[resolv.IShape]ColliderID),
		touching: make(map[pairKey]bool),
	}
}

// SpawnBody adds a body and returns its ID.
func (w *World) SpawnBody(d BodyDesc) BodyID {
	var vel *Velocity
	if d.Velocity != nil {
		v := *d.Velocity
		vel = &v
	}
	w.bodies = append(w.bodies, Body{
		Kind:     d.Kind,
		Position: d.Position,
		Velocity: vel,
		Tags:     d.Tags,
		alive:    true,
	})
	return BodyID(len(w.bodies) - 1)
}

// AttachCollider adds a collider to a live body.
func (w *World) AttachCollider(parent BodyID, d ColliderDesc) (ColliderID, error) {
	b := w.Body(parent)
	if b == nil {
		return -1, fmt.Errorf("attach collider: body %d: %w", parent, ErrMissingComponent)
	}
	local := r2.Sub(b.Position, w.origin)
	sh := d.Shape.newResolvShape(local.X, local.Y)
	pos := sh.Position()

	c := Collider{
		Parent:   parent,
		Shape:    d.Shape,
		Filter:   d.Filter,
		Sensor:   d.Sensor,
		Events:   d.Events,
		Material: copyMaterial(d.Material),
		Mass:     copyMass(d.Mass),
		Index:    d.Index,
		shape:    sh,
		offset:   resolv.Vector{X: pos.X - local.X, Y: pos.Y - local.Y},
		alive:    true,
	}
	w.colliders = append(w.colliders, c)
	id := ColliderID(len(w.colliders) - 1)
	w.byShape[sh] = id
	w.space.Add(sh)
	b.Colliders = append(b.Colliders, id)
	return id, nil
}

func copyMaterial(m *Material) *Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func copyMass(m *MassProperties) *MassProperties {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Body returns a live body, or nil.
func (w *World) Body(id BodyID) *Body {
	if id < 0 || int(id) >= len(w.bodies) || !w.bodies[id].alive {
		return nil
	}
	return &w.bodies[id]
}

// Collider returns a live collider, or nil.
func (w *World) Collider(id ColliderID) *Collider {
	if id < 0 || int(id) >= len(w.colliders) || !w.colliders[id].alive {
		return nil
	}
	return &w.colliders[id]
}

// Parent returns the body owning a collider.
func (w *World) Parent(id ColliderID) (BodyID, bool) {
	c := w.Collider(id)
	if c == nil {
		return -1, false
	}
	return c.Parent, true
}

// Alive reports whether a body exists.
func (w *World) Alive(id BodyID) bool {
	return w.Body(id) != nil
}

// SetPosition moves a body and its colliders.
func (w *World) SetPosition(id BodyID, p r2.Vec) {
	b := w.Body(id)
	if b == nil {
		return
	}
	b.Position = p
	w.syncShapes(b)
}

// Translate moves a body by delta.
func (w *World) Translate(id BodyID, delta r2.Vec) {
	if b := w.Body(id); b != nil {
		w.SetPosition(id, r2.Add(b.Position, delta))
	}
}

func (w *World) syncShapes(b *Body) {
	local := r2.Sub(b.Position, w.origin)
	for _, cid := range b.Colliders {
		c := &w.colliders[cid]
		if !c.alive {
			continue
		}
		c.shape.SetPosition(local.X+c.offset.X, local.Y+c.offset.Y)
	}
}

// Integrate advances kinematic-velocity bodies by dt seconds.
func (w *World) Integrate(dt float64) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || b.Kind != KindKinematicVelocity || b.Velocity == nil {
			continue
		}
		if b.Velocity.Linear == (r2.Vec{}) {
			continue
		}
		b.Position = r2.Add(b.Position, r2.Scale(dt, b.Velocity.Linear))
		w.syncShapes(b)
	}
}

// Despawn removes a body and its colliders. Unknown IDs are ignored.
func (w *World) Despawn(id BodyID) {
	b := w.Body(id)
	if b == nil {
		return
	}
	for _, cid := range b.Colliders {
		c := &w.colliders[cid]
		if !c.alive {
			continue
		}
		w.space.Remove(c.shape)
		delete(w.byShape, c.shape)
		c.alive = false
		c.shape = nil
	}
	b.alive = false
	for k := range w.touching {
		if w.colliders[k.a].alive && w.colliders[k.b].alive {
			continue
		}
		delete(w.touching, k)
	}
}

// DespawnTagged removes every body carrying tag and returns their IDs.
func (w *World) DespawnTagged(tag Tag) []BodyID {
	var removed []BodyID
	for i := range w.bodies {
		if w.bodies[i].alive && w.bodies[i].Tags.Has(tag) {
			w.Despawn(BodyID(i))
			removed = append(removed, BodyID(i))
		}
	}
	return removed
}

// Tagged returns the live bodies carrying tag, in ID order.
func (w *World) Tagged(tag Tag) []BodyID {
	var ids []BodyID
	for i := range w.bodies {
		if w.bodies[i].alive && w.bodies[i].Tags.Has(tag) {
			ids = append(ids, BodyID(i))
		}
	}
	return ids
}

// Count returns the number of live bodies.
func (w *World) Count() int {
	n := 0
	for i := range w.bodies {
		if w.bodies[i].alive {
			n++
		}
	}
	return n
}
