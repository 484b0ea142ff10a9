package ball

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

const eps = 1e-9

func testParams() Params {
	return ParamsFrom(config.DefaultDungeonConfig())
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestImpulseWorkedExample(t *testing.T) {
	r := NewResolver(testParams())
	b := &Ball{}
	c := Contact{
		Ball:        b,
		Depth:       2,
		Normal:      r2.Vec{X: 0, Y: 1},
		Friction:    0.5,
		Restitution: 1,
		BallMass:    physics.MassProperties{Mass: 1},
	}
	v := &physics.Velocity{Linear: r2.Vec{X: 100, Y: 0}}

	r.Accumulate([]Contact{c})
	if !near(b.TargetForce.Y, 2000, eps) || b.TargetForce.X != 0 {
		t.Fatalf("TargetForce = %v, expected (0, 2000)", b.TargetForce)
	}
	r.Impulse(v, c, 0.016)

	if !near(v.Linear.X, 92, 1e-9) || !near(v.Linear.Y, 32, 1e-9) {
		t.Errorf("velocity = %v, expected (92, 32)", v.Linear)
	}
	// |J_t| = 0.8 with rightward relative motion, then one damping step
	wantSpin := -0.8 + 0.8*0.8*0.016
	if !near(v.Angular, wantSpin, 1e-12) {
		t.Errorf("angular = %v, expected %v", v.Angular, wantSpin)
	}
}

func TestAccumulateSumsContacts(t *testing.T) {
	r := NewResolver(testParams())
	b := &Ball{}
	n := r2.Vec{X: 0.6, Y: 0.8}
	depths := []float64{0.5, 1.25, 3}

	var contacts []Contact
	sum := 0.0
	for _, d := range depths {
		contacts = append(contacts, Contact{Ball: b, Depth: d, Normal: n})
		sum += d
	}
	r.Accumulate(contacts)

	k := r.Params.Stiffness
	if !near(b.TargetForce.X, k*sum*n.X, 1e-9) || !near(b.TargetForce.Y, k*sum*n.Y, 1e-9) {
		t.Errorf("TargetForce = %v, expected %v", b.TargetForce, r2.Scale(k*sum, n))
	}
}

func TestZeroFrictionOnlyDampsSpin(t *testing.T) {
	r := NewResolver(testParams())
	tests := []struct {
		name string
		v    r2.Vec
	}{
		{"rightward", r2.Vec{X: 250, Y: -40}},
		{"leftward", r2.Vec{X: -250, Y: 40}},
		{"vertical", r2.Vec{X: 0, Y: -300}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &Ball{TargetForce: r2.Vec{X: 0, Y: 500}}
			v := &physics.Velocity{Linear: tc.v, Angular: 3}
			c := Contact{Ball: b, Depth: 0.5, Normal: r2.Vec{X: 0, Y: 1}, Friction: 0, Restitution: 1, BallMass: physics.MassProperties{Mass: 1}}

			dt := 1.0 / 60
			r.Impulse(v, c, dt)

			want := 3 - r.Params.AngularDamping*3*dt
			if !near(v.Angular, want, 1e-12) {
				t.Errorf("angular = %v, expected %v", v.Angular, want)
			}
		})
	}
}

func TestApplyImpulsesClearsPendingForce(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 500, 500), physics.DefaultCellSize)
	cfg := config.DefaultDungeonConfig()
	b, err := Spawn(w, cfg.Ball, Tennis, r2.Vec{}, r2.Vec{X: 10})
	if err != nil {
		t.Fatal(err)
	}
	b.TargetForce = r2.Vec{X: 3, Y: 4}

	r := NewResolver(testParams())
	c := Contact{Ball: b, Depth: 1, Normal: r2.Vec{Y: 1}, BallMass: physics.MassProperties{Mass: 1}}
	if err := r.ApplyImpulses(w, []Contact{c}, 0.01); err != nil {
		t.Fatalf("ApplyImpulses() failed: %v", err)
	}
	if b.TargetForce != (r2.Vec{}) {
		t.Errorf("TargetForce = %v, expected zero after the tick", b.TargetForce)
	}
}

func TestFreeFlightKeepsOriginalSpeed(t *testing.T) {
	r := NewResolver(testParams())
	tests := []struct {
		name    string
		v       r2.Vec
		spin    float64
		origVel r2.Vec
	}{
		{"no spin", r2.Vec{X: 30, Y: 40}, 0, r2.Vec{X: 0, Y: 500}},
		{"spinning", r2.Vec{X: 300, Y: 400}, 5, r2.Vec{X: 0, Y: 500}},
		{"strong backspin", r2.Vec{X: -10, Y: 900}, -40, r2.Vec{X: 300, Y: 400}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := &physics.Velocity{Linear: tc.v, Angular: tc.spin}
			speed := r2.Norm(tc.origVel)
			for range 120 {
				r.FreeFlight(v, speed, 1.0/60)
				if got := r2.Norm(v.Linear); !near(got, speed, 1e-9) {
					t.Fatalf("|v| = %v, expected %v", got, speed)
				}
			}
		})
	}
}

func TestMagnusCurvesWithSpin(t *testing.T) {
	r := NewResolver(testParams())
	v := &physics.Velocity{Linear: r2.Vec{X: 0, Y: 500}, Angular: 2}
	r.Magnus(v, 1.0/60)

	// Positive spin pushes toward -x
	if v.Linear.X >= 0 {
		t.Errorf("vx = %v, expected negative drift", v.Linear.X)
	}
	want := 2 - r.Params.AngularDamping*2/60
	if !near(v.Angular, want, 1e-12) {
		t.Errorf("angular = %v, expected %v", v.Angular, want)
	}
}

func TestFreeFlightZeroVelocityStaysZero(t *testing.T) {
	r := NewResolver(testParams())
	v := &physics.Velocity{Angular: 4}
	r.FreeFlight(v, 500, 1.0/60)
	if v.Linear != (r2.Vec{}) {
		t.Errorf("velocity = %v, expected zero", v.Linear)
	}
}

// buildBox adds a fixed box with full components.
func buildBox(t *testing.T, w *physics.World, x, y, hw, hh float64, mat *physics.Material) physics.ColliderID {
	t.Helper()
	body := w.SpawnBody(physics.BodyDesc{Kind: physics.KindFixed, Position: r2.Vec{X: x, Y: y}, Velocity: &physics.Velocity{}, Tags: physics.TagWall})
	cid, err := w.AttachCollider(body, physics.ColliderDesc{
		Shape:    physics.Box(hw, hh),
		Filter:   physics.NewFilter(physics.GroupWall, physics.GroupAll),
		Material: mat,
		Mass:     &physics.MassProperties{Mass: math.MaxFloat32},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cid
}

func TestDetectContactsAgainstWall(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 500, 500), physics.DefaultCellSize)
	cfg := config.DefaultDungeonConfig()
	floor := buildBox(t, w, 0, 0, 100, 10, &physics.Material{Friction: 0.5, Restitution: 1})
	b, err := Spawn(w, cfg.Ball, Tennis, r2.Vec{X: 0, Y: 25}, r2.Vec{X: 100})
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testParams())
	contacts, err := r.DetectContacts(w, []*Ball{b}, 1.0/60)
	if err != nil {
		t.Fatalf("DetectContacts() failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, expected 1", len(contacts))
	}
	c := contacts[0]
	if c.Other != floor {
		t.Errorf("Other = %d, expected floor %d", c.Other, floor)
	}
	if !near(c.Depth, 5, 1e-3) || !near(c.Normal.Y, 1, 1e-3) {
		t.Errorf("depth/normal = %v/%v, expected 5/(0,1)", c.Depth, c.Normal)
	}
	if !near(c.Friction, 0.75, eps) || !near(c.Restitution, 1, eps) {
		t.Errorf("combined friction/restitution = %v/%v, expected 0.75/1", c.Friction, c.Restitution)
	}
	if c.OtherMass.Mass != math.MaxFloat32 {
		t.Errorf("OtherMass = %v", c.OtherMass.Mass)
	}
}

// Two simultaneous contacts collapse to one record carrying the last pair's
// manifold, so the opposing normals are not fused.
func TestDetectContactsLastManifoldWins(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 500, 500), physics.DefaultCellSize)
	cfg := config.DefaultDungeonConfig()
	mat := &physics.Material{Friction: 1, Restitution: 1}
	buildBox(t, w, 0, 0, 100, 10, mat)             // top face at y=10
	ceiling := buildBox(t, w, 0, 56, 100, 10, mat) // bottom face at y=46
	b, err := Spawn(w, cfg.Ball, Tennis, r2.Vec{X: 0, Y: 28}, r2.Vec{X: 50})
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testParams())
	contacts, err := r.DetectContacts(w, []*Ball{b}, 1.0/60)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, expected a single record", len(contacts))
	}
	if contacts[0].Other != ceiling {
		t.Errorf("Other = %d, expected the last pair %d", contacts[0].Other, ceiling)
	}
	if !near(contacts[0].Normal.Y, -1, 1e-3) {
		t.Errorf("Normal = %v, expected (0, -1)", contacts[0].Normal)
	}
}

func TestDetectContactsMissingMaterial(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 500, 500), physics.DefaultCellSize)
	cfg := config.DefaultDungeonConfig()
	buildBox(t, w, 0, 0, 100, 10, nil)
	b, err := Spawn(w, cfg.Ball, Tennis, r2.Vec{X: 0, Y: 25}, r2.Vec{X: 100})
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewResolver(testParams()).DetectContacts(w, []*Ball{b}, 1.0/60)
	if !errors.Is(err, physics.ErrMissingComponent) {
		t.Errorf("error = %v, expected ErrMissingComponent", err)
	}
}

func TestStepBouncesOffFloor(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 500, 500), physics.DefaultCellSize)
	cfg := config.DefaultDungeonConfig()
	buildBox(t, w, 0, 0, 200, 10, &physics.Material{Friction: 0, Restitution: 1})
	b, err := Spawn(w, cfg.Ball, Tennis, r2.Vec{X: 0, Y: 25}, r2.Vec{X: 0, Y: -100})
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(testParams())
	contacts, err := r.Step(w, []*Ball{b}, 1.0/60)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, expected 1", len(contacts))
	}
	v := w.Body(b.Body).Velocity.Linear
	// J_n = k*d*dt = 1000*5/60 pushes upward
	if !near(v.Y, -100+1000*5.0/60, 1e-3) {
		t.Errorf("vy = %v, expected %v", v.Y, -100+1000*5.0/60)
	}
	if b.TargetForce != (r2.Vec{}) {
		t.Error("pending force not cleared")
	}
}

func TestBoundsOutside(t *testing.T) {
	b := BoundsFor(config.DefaultDungeonConfig().Arena)
	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{"center", r2.Vec{}, false},
		{"left edge", r2.Vec{X: -640}, false},
		{"past left", r2.Vec{X: -640.1}, true},
		{"past right", r2.Vec{X: 641}, true},
		{"past top", r2.Vec{Y: 361}, true},
		{"in dead zone margin", r2.Vec{Y: -440}, false},
		{"below margin", r2.Vec{Y: -461}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Outside(tc.p); got != tc.want {
				t.Errorf("Outside(%v) = %v, expected %v", tc.p, got, tc.want)
			}
		})
	}
}
