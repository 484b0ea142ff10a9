package ball

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// Params are the constants of the contact and flight model.
type Params struct {
	Stiffness         float64 // k
	FluidDensity      float64 // rho
	MagnusCoefficient float64 // C
	MagnusScale       float64
	AngularDamping    float64 // c
	TangentialGain    float64 // multiplier on J_t in the velocity update
	Size              float64 // ball diameter
}

// ParamsFrom extracts resolver parameters from the tuning config.
func ParamsFrom(cfg config.DungeonConfig) Params {
	return Params{
		Stiffness:         cfg.Physics.Stiffness,
		FluidDensity:      cfg.Physics.FluidDensity,
		MagnusCoefficient: cfg.Physics.MagnusCoefficient,
		MagnusScale:       cfg.Physics.MagnusScale,
		AngularDamping:    cfg.Physics.AngularDamping,
		TangentialGain:    cfg.Physics.TangentialGain,
		Size:              cfg.Ball.Size,
	}
}

// Contact is the record of one ball touching one solid collider this tick.
// Friction and Restitution are the arithmetic means of both colliders.
type Contact struct {
	Ball          *Ball
	Other         physics.ColliderID
	Depth         float64
	Normal        r2.Vec // out of the other collider, toward the ball
	Friction      float64
	Restitution   float64
	OtherVelocity physics.Velocity
	BallMass      physics.MassProperties
	OtherMass     physics.MassProperties
}

// Resolver runs the ball contact pipeline.
type Resolver struct {
	Params Params
}

// NewResolver creates a resolver.
func NewResolver(p Params) *Resolver {
	return &Resolver{Params: p}
}

// Step runs detection, force accumulation and impulse application for every
// ball, in that order. Balls without a solid contact fly freely.
func (r *Resolver) Step(w *physics.World, balls []*Ball, dt float64) ([]Contact, error) {
	contacts, err := r.DetectContacts(w, balls, dt)
	if err != nil {
		return nil, err
	}
	r.Accumulate(contacts)
	if err := r.ApplyImpulses(w, contacts, dt); err != nil {
		return nil, err
	}
	return contacts, nil
}

// DetectContacts builds at most one Contact per ball. When a ball touches
// several colliders the last pair's last manifold supplies depth and normal.
// Balls with no active contact get the free-flight update immediately.
func (r *Resolver) DetectContacts(w *physics.World, balls []*Ball, dt float64) ([]Contact, error) {
	var contacts []Contact
	for _, b := range balls {
		body := w.Body(b.Body)
		if body == nil {
			continue
		}
		if body.Velocity == nil {
			return nil, fmt.Errorf("ball body %d has no velocity: %w", b.Body, physics.ErrMissingComponent)
		}

		var (
			inContact bool
			depth     float64
			normal    r2.Vec
			other     physics.ColliderID
		)
		for _, pair := range w.ContactPairsWith(b.Collider) {
			if !pair.HasActiveContact() {
				continue
			}
			inContact = true
			for _, m := range pair.Manifolds() {
				depth = math.Abs(m.Depth)
				normal = m.Normal
				other = pair.Collider2
			}
		}

		if !inContact {
			r.FreeFlight(body.Velocity, r2.Norm(b.OriginalVel.Linear), dt)
			continue
		}

		c, err := r.record(w, b, other, depth, normal)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// record resolves materials, masses and the other body's velocity for a contact.
func (r *Resolver) record(w *physics.World, b *Ball, other physics.ColliderID, depth float64, normal r2.Vec) (Contact, error) {
	bc := w.Collider(b.Collider)
	oc := w.Collider(other)
	if bc == nil || oc == nil {
		return Contact{}, fmt.Errorf("contact %d-%d: collider gone: %w", b.Collider, other, physics.ErrMissingComponent)
	}
	if bc.Material == nil || oc.Material == nil {
		return Contact{}, fmt.Errorf("contact %d-%d: friction/restitution: %w", b.Collider, other, physics.ErrMissingComponent)
	}
	if bc.Mass == nil || oc.Mass == nil {
		return Contact{}, fmt.Errorf("contact %d-%d: mass properties: %w", b.Collider, other, physics.ErrMissingComponent)
	}
	ob := w.Body(oc.Parent)
	if ob == nil || ob.Velocity == nil {
		return Contact{}, fmt.Errorf("contact %d-%d: other velocity: %w", b.Collider, other, physics.ErrMissingComponent)
	}

	return Contact{
		Ball:          b,
		Other:         other,
		Depth:         depth,
		Normal:        normal,
		Friction:      (bc.Material.Friction + oc.Material.Friction) / 2,
		Restitution:   (bc.Material.Restitution + oc.Material.Restitution) / 2,
		OtherVelocity: *ob.Velocity,
		BallMass:      *bc.Mass,
		OtherMass:     *oc.Mass,
	}, nil
}

// Accumulate adds the spring force d*k*n of every contact into its ball's
// pending force slot.
func (r *Resolver) Accumulate(contacts []Contact) {
	for _, c := range contacts {
		c.Ball.TargetForce = r2.Add(c.Ball.TargetForce, r2.Scale(c.Depth*r.Params.Stiffness, c.Normal))
	}
}

// ApplyImpulses converts each contact into normal and tangential impulses on
// the ball's velocity and spin, then clears the balls' pending forces.
func (r *Resolver) ApplyImpulses(w *physics.World, contacts []Contact, dt float64) error {
	for _, c := range contacts {
		body := w.Body(c.Ball.Body)
		if body == nil || body.Velocity == nil {
			return fmt.Errorf("ball body %d: velocity: %w", c.Ball.Body, physics.ErrMissingComponent)
		}
		r.Impulse(body.Velocity, c, dt)
	}
	for _, c := range contacts {
		c.Ball.TargetForce = r2.Vec{}
	}
	return nil
}

// Impulse applies one contact to v using the ball's current pending force.
func (r *Resolver) Impulse(v *physics.Velocity, c Contact, dt float64) {
	m := c.BallMass.Mass
	vRel := r2.Sub(v.Linear, c.OtherVelocity.Linear)
	vTan := r2.Sub(vRel, r2.Scale(r2.Dot(vRel, c.Normal), c.Normal))

	jn := r2.Scale(c.Restitution*dt, c.Ball.TargetForce)
	jt := r2.Scale(m*c.Friction*dt, vTan)

	v.Linear = r2.Add(v.Linear, r2.Scale(1/m, r2.Sub(jn, r2.Scale(r.Params.TangentialGain, jt))))
	v.Angular += r2.Norm(jt) * spinSign(vRel.X) / m
	v.Angular -= r.Params.AngularDamping * v.Angular * dt
}

// spinSign is +1 for leftward relative motion, -1 for rightward, 0 otherwise.
func spinSign(x float64) float64 {
	switch {
	case x < 0:
		return 1
	case x > 0:
		return -1
	default:
		return 0
	}
}

// FreeFlight keeps the ball at speed along its heading and lets spin curve it.
func (r *Resolver) FreeFlight(v *physics.Velocity, speed, dt float64) {
	v.Linear = r2.Scale(speed, physics.UnitOrZero(v.Linear))
	r.Magnus(v, dt)
	v.Linear = r2.Scale(speed, physics.UnitOrZero(v.Linear))
}

// Magnus applies the spin-induced lateral force and angular damping.
// The force uses the spin from before damping.
func (r *Resolver) Magnus(v *physics.Velocity, dt float64) {
	p := r.Params
	f := p.FluidDensity * math.Pi * -v.Angular * r2.Norm(v.Linear) * (p.Size / 2) * p.MagnusCoefficient * p.MagnusScale
	v.Angular -= p.AngularDamping * v.Angular * dt
	v.Linear = r2.Add(v.Linear, r2.Vec{X: f * dt})
}
