package dungeon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/ball"
	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// Paddle is the player's brick.
type Paddle struct {
	Body     physics.BodyID
	Collider physics.ColliderID
	Speed    float64
	Pressure enemy.Pressure
	Aim      float64 // radians from +x
	Aiming   bool    // Left/Right rotate the aim instead of moving
	Hand     *ball.Kind

	cfg config.PaddleConfig
}

const moveSmoothing = 0.5

func spawnPaddle(w *physics.World, cfg config.PaddleConfig) (*Paddle, error) {
	body := w.SpawnBody(physics.BodyDesc{
		Kind:     physics.KindKinematicVelocity,
		Position: r2.Vec{X: cfg.StartX, Y: cfg.StartY},
		Velocity: &physics.Velocity{},
		Tags:     physics.TagPaddle,
	})
	cid, err := w.AttachCollider(body, physics.ColliderDesc{
		Shape:    physics.Box(cfg.Width/2, cfg.Height/2),
		Filter:   physics.NewFilter(physics.GroupPaddle, physics.GroupAll^physics.GroupDeadZone),
		Events:   true,
		Material: &physics.Material{Friction: cfg.Friction, Restitution: cfg.Restitution},
		Mass:     &physics.MassProperties{Mass: cfg.Mass},
	})
	if err != nil {
		return nil, fmt.Errorf("spawn paddle: %w", err)
	}
	return &Paddle{
		Body:     body,
		Collider: cid,
		Speed:    cfg.Speed,
		Pressure: enemy.NewPressure(cfg.PressureMax),
		Aim:      math.Pi / 2,
		cfg:      cfg,
	}, nil
}

// steer sets the paddle velocity and aim from input.
func (p *Paddle) steer(w *physics.World, in core.InputFrame, dt float64) {
	body := w.Body(p.Body)
	if body == nil {
		return
	}

	turn := in.Axis(core.ActionAimRight, core.ActionAimLeft)
	h := in.Axis(core.ActionLeft, core.ActionRight)
	if p.Aiming {
		turn -= h
		h = 0
	}
	lo, hi := p.cfg.AimMinDeg*math.Pi/180, p.cfg.AimMaxDeg*math.Pi/180
	p.Aim = core.ClampF(p.Aim+turn*p.cfg.AimSpeed*dt, lo, hi)

	dir := physics.UnitOrZero(r2.Vec{X: h, Y: in.Axis(core.ActionDown, core.ActionUp)})
	body.Velocity.Linear = physics.LerpVec(body.Velocity.Linear, r2.Scale(p.Speed, dir), moveSmoothing)
}

// pushOut moves the paddle out of every solid non-ball contact.
func (p *Paddle) pushOut(w *physics.World) {
	for _, pair := range w.ContactPairsWith(p.Collider) {
		if !pair.HasActiveContact() {
			continue
		}
		parent, ok := w.Parent(pair.Collider2)
		if !ok || w.Body(parent).Tags.Has(physics.TagBall) {
			continue
		}
		for _, m := range pair.Manifolds() {
			w.Translate(p.Body, r2.Scale(m.Depth, m.Normal))
		}
	}
}

// reset puts the paddle back at its home position, at rest.
func (p *Paddle) reset(w *physics.World) {
	w.SetPosition(p.Body, r2.Vec{X: p.cfg.StartX, Y: p.cfg.StartY})
	if body := w.Body(p.Body); body != nil {
		body.Velocity.Linear = r2.Vec{}
	}
}

// handPosition is where a ball is released.
func (p *Paddle) handPosition(w *physics.World, ballCfg config.BallConfig) r2.Vec {
	pos := w.Body(p.Body).Position
	return r2.Add(pos, r2.Vec{Y: p.cfg.Height/2 + ballCfg.Size/2 + ballCfg.HandGap})
}

// apply adds an item effect to the paddle and inventory.
func (p *Paddle) apply(w *physics.World, inv *ball.Inventory, e item.Effect) {
	if c := w.Collider(p.Collider); c != nil && c.Material != nil {
		c.Material.Friction += e.Friction
	}
	p.Pressure.Max += e.PressureMax
	p.Pressure.Add(e.Pressure)
	p.Speed += e.Speed
	inv.Expand(e.Capacity)
	for range e.TennisBalls {
		if inv.Push(ball.Tennis) != nil {
			break
		}
	}
}
