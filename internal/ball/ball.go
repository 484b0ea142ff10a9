// Package ball implements launched balls: the elastic contact resolver,
// free flight with Magnus drift, despawn bounds and the ball inventory.
package ball

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// Kind is a ball variety held in the inventory.
type Kind int

const (
	Tennis Kind = iota
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Tennis:
		return "Tennis"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ball is the state the resolver keeps for one launched ball.
type Ball struct {
	Body              physics.BodyID
	Collider          physics.ColliderID
	Kind              Kind
	OriginalVel       physics.Velocity // snapshot at launch; free flight keeps |Linear|
	TargetForce       r2.Vec           // pending spring force, zeroed after each contact tick
	Damage            float64
	DamageCoefficient float64
}

// Spawn creates the ball body at pos moving with velocity vel and records
// vel as the ball's original velocity.
func Spawn(w *physics.World, cfg config.BallConfig, kind Kind, pos, vel r2.Vec) (*Ball, error) {
	body := w.SpawnBody(physics.BodyDesc{
		Kind:     physics.KindKinematicVelocity,
		Position: pos,
		Velocity: &physics.Velocity{Linear: vel},
		Tags:     physics.TagBall | physics.TagRoom,
	})
	cid, err := w.AttachCollider(body, physics.ColliderDesc{
		Shape:    physics.Circle(cfg.Size / 2),
		Filter:   physics.NewFilter(physics.GroupBall, physics.GroupAll^physics.GroupTransparentWall),
		Events:   true,
		Material: &physics.Material{Friction: cfg.Friction, Restitution: cfg.Restitution},
		Mass:     &physics.MassProperties{Mass: cfg.Mass, Inertia: cfg.Inertia},
	})
	if err != nil {
		w.Despawn(body)
		return nil, fmt.Errorf("spawn ball: %w", err)
	}
	return &Ball{
		Body:              body,
		Collider:          cid,
		Kind:              kind,
		OriginalVel:       physics.Velocity{Linear: vel},
		Damage:            cfg.Damage,
		DamageCoefficient: cfg.DamageCoefficient,
	}, nil
}

// Bounds is the region a ball may occupy before it is despawned.
type Bounds struct {
	HalfW  float64
	HalfH  float64
	Margin float64 // extra depth below the floor
}

// BoundsFor returns the despawn bounds of an arena.
func BoundsFor(a config.ArenaConfig) Bounds {
	return Bounds{HalfW: a.Width / 2, HalfH: a.Height / 2, Margin: a.DespawnMargin}
}

// Rect returns the bounds as a rectangle.
func (b Bounds) Rect() core.Rect {
	return core.NewRect(-b.HalfW, -(b.HalfH + b.Margin), 2*b.HalfW, 2*b.HalfH+b.Margin)
}

// Outside reports whether a ball at p must be despawned.
func (b Bounds) Outside(p r2.Vec) bool {
	return p.X < -b.HalfW || p.X > b.HalfW || p.Y > b.HalfH || p.Y < -(b.HalfH+b.Margin)
}
